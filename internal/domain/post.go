// Package domain defines the persistence model for blog posts. The Post type
// is mapped with GORM and forms the core data layer of the post service.
package domain

import "time"

// PostStatus is the closed lifecycle enumeration for a post. Status values are
// stored as integers but must only ever be compared against these constants.
type PostStatus int

const (
	// StatusActive marks a visible, live post.
	StatusActive PostStatus = 1
	// StatusInactive marks a post that is hidden but not removed.
	StatusInactive PostStatus = 2
	// StatusDeleted is the soft-delete marker. Deleted rows stay in the table
	// forever but are excluded from every read and write path.
	StatusDeleted PostStatus = 3
)

// Valid reports whether s is one of the known status values.
func (s PostStatus) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusDeleted:
		return true
	}
	return false
}

// String returns the lowercase name of the status for logs and debugging.
func (s PostStatus) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusInactive:
		return "inactive"
	case StatusDeleted:
		return "deleted"
	}
	return "unknown"
}

// Post represents a single blog post.
//
// Fields:
//   - ID: surrogate autoincrement key, internal to the store, never serialized.
//   - Sid: externally visible UUID, unique and immutable once assigned. It is
//     the lookup key for all by-id operations and the cache key for the
//     read-through path.
//   - Name / Description: mutable text fields.
//   - ImageURL: optional URL of an uploaded image; nil when no file was ever
//     attached.
//   - Status: lifecycle state; StatusDeleted rows are invisible to all queries.
//   - CreatedAt / LastModifiedAt: UTC timestamps. LastModifiedAt is bumped on
//     every mutation, including the soft delete, so LastModifiedAt >= CreatedAt
//     always holds.
type Post struct {
	ID             uint       `json:"-"               gorm:"primaryKey;autoIncrement"`
	Sid            string     `json:"sid"             gorm:"type:char(36);not null;uniqueIndex:ux_posts_sid"`
	Name           string     `json:"name"            gorm:"column:post_name;type:varchar(255);not null"`
	Description    string     `json:"description"     gorm:"column:post_description;type:text;not null"`
	ImageURL       *string    `json:"image_url,omitempty" gorm:"column:image_url;type:varchar(512)"`
	Status         PostStatus `json:"status"          gorm:"not null;index:idx_posts_status;check:status IN (1,2,3)"`
	CreatedAt      time.Time  `json:"created_at"`
	LastModifiedAt time.Time  `json:"last_modified_at"`
}

// TableName returns the database table name for Post.
func (Post) TableName() string { return "posts" }
