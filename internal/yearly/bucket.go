// Package yearly partitions dated collection items by calendar year and links
// one page per year into a doubly linked chain.
package yearly

import (
	"sort"
	"time"

	"github.com/goliatone/go-pagination/internal/dates"
	"github.com/goliatone/go-pagination/pkg/interfaces"
)

// Bucket holds the items published in a single year, in collection order.
type Bucket struct {
	Year  int
	Items []interfaces.Document
}

// BucketOption configures BucketByYear.
type BucketOption func(*bucketConfig)

type bucketConfig struct {
	location *time.Location
	dateKey  string
}

// WithLocation sets the zone used for epoch numbers and zone-less date strings.
func WithLocation(loc *time.Location) BucketOption {
	return func(cfg *bucketConfig) {
		if loc != nil {
			cfg.location = loc
		}
	}
}

// WithDateKey reads the item date from key instead of "date".
func WithDateKey(key string) BucketOption {
	return func(cfg *bucketConfig) {
		if key != "" {
			cfg.dateKey = key
		}
	}
}

// BucketByYear groups items by the year of their date attribute, newest year
// first. Items without a usable date are dropped. Within a bucket items keep
// their original relative order. A nil result means nothing can be paginated.
func BucketByYear(items []interfaces.Document, opts ...BucketOption) []Bucket {
	cfg := bucketConfig{
		location: time.UTC,
		dateKey:  interfaces.AttrDate,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	index := map[int]int{}
	var buckets []Bucket
	for _, item := range items {
		if item == nil {
			continue
		}
		year, ok := dates.Year(item[cfg.dateKey], cfg.location)
		if !ok {
			continue
		}
		pos, seen := index[year]
		if !seen {
			pos = len(buckets)
			index[year] = pos
			buckets = append(buckets, Bucket{Year: year})
		}
		buckets[pos].Items = append(buckets[pos].Items, item)
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Year > buckets[j].Year
	})
	return buckets
}

// Years lists the bucket years in order.
func Years(buckets []Bucket) []int {
	years := make([]int, 0, len(buckets))
	for _, bucket := range buckets {
		years = append(years, bucket.Year)
	}
	return years
}
