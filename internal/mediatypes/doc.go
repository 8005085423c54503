// Package mediatypes classifies media files by extension: MIME type
// resolution and codec-family membership.
package mediatypes
