// Package image holds the typed image entity exposed to application code.
package image

import (
	"time"

	"github.com/kailas-cloud/pfin/internal/domain/record"
)

// Orientation of a picture, derived from the boolean format flag.
type Orientation string

// Orientations.
const (
	Vertical   Orientation = "vertical"
	Horizontal Orientation = "horizontal"
)

// Image is one picture's metadata. Built only from a normalized record.
type Image struct {
	MongoID       string   `json:"_id"`
	ID            string   `json:"id"`
	Extension     string   `json:"extension"`
	Type          string   `json:"type"`
	ProductIn     bool     `json:"product_in"`
	HumanIn       bool     `json:"human_in"`
	Institutional bool     `json:"institutional"`
	Format        bool     `json:"format"`
	Credits       string   `json:"credits"`
	LimitedUsage  bool     `json:"limited_usage"`
	Copyright     bool     `json:"copyright"`
	UsageEnd      int64    `json:"usage_end"`
	Tags          []string `json:"tags"`
}

// FromRecord populates an Image field by field from a record normalized with
// record.ImageSpec. Values of an unexpected type read as the zero value.
func FromRecord(rec record.Record) Image {
	return Image{
		MongoID:       str(rec[record.ImageMongoID]),
		ID:            str(rec[record.ImageID]),
		Extension:     str(rec[record.ImageExtension]),
		Type:          str(rec[record.ImageType]),
		ProductIn:     boolean(rec[record.ImageProductIn]),
		HumanIn:       boolean(rec[record.ImageHumanIn]),
		Institutional: boolean(rec[record.ImageInstitutional]),
		Format:        boolean(rec[record.ImageFormat]),
		Credits:       str(rec[record.ImageCredits]),
		LimitedUsage:  boolean(rec[record.ImageLimitedUsage]),
		Copyright:     boolean(rec[record.ImageCopyright]),
		UsageEnd:      integer(rec[record.ImageUsageEnd]),
		Tags:          stringList(rec[record.ImageTags]),
	}
}

// Orientation reports whether the picture is vertical or horizontal.
func (i Image) Orientation() Orientation {
	if i.Format {
		return Vertical
	}
	return Horizontal
}

// FileName is the content id joined with the extension.
func (i Image) FileName() string {
	if i.Extension == "" {
		return i.ID
	}
	return i.ID + "." + i.Extension
}

// UsableAt reports whether usage rights still hold at t.
// Images without limited usage, or without an end date, are always usable.
func (i Image) UsableAt(t time.Time) bool {
	if !i.LimitedUsage || i.UsageEnd == 0 {
		return true
	}
	return t.Unix() <= i.UsageEnd
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func boolean(v any) bool {
	b, _ := v.(bool)
	return b
}

func integer(v any) int64 {
	n, _ := v.(int64)
	return n
}

func stringList(v any) []string {
	switch l := v.(type) {
	case []string:
		out := make([]string, len(l))
		copy(out, l)
		return out
	case []any:
		out := make([]string, 0, len(l))
		for _, e := range l {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}
