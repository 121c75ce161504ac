package models

import "time"

// URL represents one short code to original URL mapping.
// Records are write-once: no field changes after creation.
type URL struct {
	// ShortCode is the fixed-length base62 code associated with the original URL.
	ShortCode string
	// OriginalURL is the original, full-length URL that the short code points to.
	OriginalURL string
	// CreatedAt is the timestamp indicating when the mapping was created.
	CreatedAt time.Time
}
