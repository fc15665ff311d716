// Package exif talks to the long-lived exiftool worker for reading and
// writing tag metadata. Everything above this package sees only field
// values; process lifecycle and the exiftool wire protocol stay in here.
package exif
