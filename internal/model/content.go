package model

import (
	"time"

	"gorm.io/datatypes"
)

// Banner is a promotional strip shown on the storefront
type Banner struct {
	ID          uint              `json:"id" gorm:"primarykey"`
	StoreID     uint              `json:"store_id" gorm:"index;not null"`
	Title       string            `json:"title" gorm:"type:varchar(100);not null"`
	Description string            `json:"description" gorm:"type:varchar(200)"`
	Icon        string            `json:"icon" gorm:"type:varchar(100)"`
	Order       int               `json:"order" gorm:"column:sort_order;index"`
	IsActive    bool              `json:"is_active"`
	LinkURL     string            `json:"link_url" gorm:"type:varchar(500)"`
	LinkText    string            `json:"link_text" gorm:"type:varchar(100)"`
	LinkTarget  string            `json:"link_target" gorm:"type:varchar(10)"`
	Style       datatypes.JSONMap `json:"style,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// PageStatus is the publication state of a page.
type PageStatus string

const (
	PageStatusDraft     PageStatus = "draft"
	PageStatusPublished PageStatus = "published"
	PageStatusArchived  PageStatus = "archived"
)

// Valid reports whether s is a known page status.
func (s PageStatus) Valid() bool {
	switch s {
	case PageStatusDraft, PageStatusPublished, PageStatusArchived:
		return true
	}
	return false
}

// Page is a CMS page, slug unique per store
type Page struct {
	ID              uint              `json:"id" gorm:"primarykey"`
	StoreID         uint              `json:"store_id" gorm:"not null;uniqueIndex:idx_page_store_slug"`
	Title           string            `json:"title" gorm:"type:varchar(255);not null"`
	Slug            string            `json:"slug" gorm:"type:varchar(255);not null;uniqueIndex:idx_page_store_slug"`
	Content         string            `json:"content" gorm:"type:text"`
	Excerpt         string            `json:"excerpt" gorm:"type:varchar(500)"`
	Status          PageStatus        `json:"status" gorm:"type:varchar(20);not null;index"`
	ParentID        *uint             `json:"parent_id,omitempty" gorm:"index"`
	ShowInMenu      bool              `json:"show_in_menu"`
	MenuOrder       int               `json:"menu_order"`
	MetaTitle       string            `json:"meta_title" gorm:"type:varchar(255)"`
	MetaDescription string            `json:"meta_description" gorm:"type:varchar(500)"`
	Metadata        datatypes.JSONMap `json:"metadata,omitempty"`
	AuthorID        uint              `json:"author_id"`
	Views           int               `json:"views"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// FooterContact is the contact block of a footer
type FooterContact struct {
	Address string `json:"address" gorm:"type:varchar(500)"`
	Email   string `json:"email" gorm:"type:varchar(255)"`
	Phone   string `json:"phone" gorm:"type:varchar(50)"`
}

// Footer is the single footer configuration of a store
type Footer struct {
	ID            uint              `json:"id" gorm:"primarykey"`
	StoreID       uint              `json:"store_id" gorm:"not null;uniqueIndex"`
	Contact       FooterContact     `json:"contact" gorm:"embedded;embeddedPrefix:contact_"`
	SocialLinks   datatypes.JSONMap `json:"social_links,omitempty"`
	MapEmbedCode  string            `json:"map_embed_code" gorm:"type:text"`
	ShowMap       bool              `json:"show_map"`
	CopyrightText string            `json:"copyright_text" gorm:"type:varchar(255)"`
	CopyrightYear int               `json:"copyright_year"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// DefaultFooter returns the footer a store starts with.
func DefaultFooter(storeID uint, now time.Time) Footer {
	return Footer{
		StoreID: storeID,
		Contact: FooterContact{
			Address: "Kankarbagh, Patna, Bihar",
			Email:   "support@ewa.com",
			Phone:   "(+91) 9999999999",
		},
		SocialLinks: datatypes.JSONMap{
			"facebook": "", "instagram": "", "twitter": "",
			"pinterest": "", "youtube": "", "linkedin": "",
		},
		ShowMap:       true,
		CopyrightText: "Copyright © " + now.Format("2006") + " EWA. All rights reserved.",
		CopyrightYear: now.Year(),
	}
}
