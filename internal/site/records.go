// Package site defines the records mirrored from the remote tables and the
// pure presentation derivations the views consume.
package site

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ToolStatus is the lifecycle state of a showcased tool.
type ToolStatus string

const (
	StatusLive       ToolStatus = "LIVE"
	StatusComingSoon ToolStatus = "COMING SOON"
)

// MaxToolButtons caps the action buttons on a tool card.
const MaxToolButtons = 5

// ToolButton is one action button on a tool card. Link is only meaningful
// (and required) when the owning tool is LIVE.
type ToolButton struct {
	Name string `json:"name"`
	Link string `json:"link"`
}

// Tool is a showcased AI tool.
type Tool struct {
	ID          string
	Name        string
	Description string
	Status      ToolStatus
	Icon        string
	LaunchDays  string // only meaningful when Status is COMING SOON
	Buttons     []ToolButton
	CreatedAt   time.Time
}

func (t *Tool) RecordID() string      { return t.ID }
func (t *Tool) SetRecordID(id string) { t.ID = id }

// Clone returns a deep copy, including the buttons slice.
func (t *Tool) Clone() *Tool {
	c := *t
	c.Buttons = append([]ToolButton(nil), t.Buttons...)
	return &c
}

func (t *Tool) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("tool name is required")
	}
	if t.Status != StatusLive && t.Status != StatusComingSoon {
		return fmt.Errorf("invalid tool status %q", t.Status)
	}
	if len(t.Buttons) < 1 || len(t.Buttons) > MaxToolButtons {
		return fmt.Errorf("tool needs 1-%d buttons, got %d", MaxToolButtons, len(t.Buttons))
	}
	if t.Status == StatusLive {
		for i, b := range t.Buttons {
			if strings.TrimSpace(b.Link) == "" {
				return fmt.Errorf("button %d needs a link while the tool is LIVE", i+1)
			}
		}
	}
	return nil
}

// ToolsOldestFirst is the tools table's natural order: launch order, with
// the id breaking created_at ties.
func ToolsOldestFirst(a, b *Tool) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

// NormalizeButtons translates the legacy single-button shape (button_name /
// button_link columns) into the canonical multi-button shape. Internal logic
// only ever sees the canonical shape.
func (t *Tool) NormalizeButtons(legacyName, legacyLink string) {
	if len(t.Buttons) > 0 {
		return
	}
	name := legacyName
	if name == "" {
		name = "Try Now"
	}
	t.Buttons = []ToolButton{{Name: name, Link: legacyLink}}
}

// RequestCategory classifies a tool request.
type RequestCategory string

const (
	CategoryProductivity RequestCategory = "Productivity"
	CategoryCreative     RequestCategory = "Creative"
	CategoryBusiness     RequestCategory = "Business"
	CategoryEducation    RequestCategory = "Education"
)

// RequestCategories lists the selectable categories in form order.
var RequestCategories = []RequestCategory{
	CategoryProductivity,
	CategoryCreative,
	CategoryBusiness,
	CategoryEducation,
}

func validCategory(c RequestCategory) bool {
	for _, known := range RequestCategories {
		if c == known {
			return true
		}
	}
	return false
}

// ToolRequest is a visitor-submitted request for a new tool. Immutable after
// creation except for deletion.
type ToolRequest struct {
	ID          string
	ToolName    string
	Description string
	Category    RequestCategory
	Email       string
	SubmittedAt time.Time
}

func (r *ToolRequest) RecordID() string      { return r.ID }
func (r *ToolRequest) SetRecordID(id string) { r.ID = id }

func (r *ToolRequest) Clone() *ToolRequest {
	c := *r
	return &c
}

func (r *ToolRequest) Validate() error {
	if strings.TrimSpace(r.ToolName) == "" {
		return fmt.Errorf("requested tool name is required")
	}
	if strings.TrimSpace(r.Email) == "" {
		return fmt.Errorf("requester email is required")
	}
	if !validCategory(r.Category) {
		return fmt.Errorf("unknown request category %q", r.Category)
	}
	return nil
}

// RequestsNewestFirst is the requests table's natural order.
func RequestsNewestFirst(a, b *ToolRequest) bool {
	if !a.SubmittedAt.Equal(b.SubmittedAt) {
		return a.SubmittedAt.After(b.SubmittedAt)
	}
	return a.ID > b.ID
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s looks like an email address. Same check the
// waitlist form applies before submitting.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// WaitlistEntry is one collected email. Immutable after creation except for
// deletion. Emails are unique per collection; duplicate joins are no-ops.
type WaitlistEntry struct {
	ID       string
	Email    string
	JoinedAt time.Time
}

func (w *WaitlistEntry) RecordID() string      { return w.ID }
func (w *WaitlistEntry) SetRecordID(id string) { w.ID = id }

func (w *WaitlistEntry) Clone() *WaitlistEntry {
	c := *w
	return &c
}

func (w *WaitlistEntry) Validate() error {
	if !ValidEmail(strings.TrimSpace(w.Email)) {
		return fmt.Errorf("invalid waitlist email %q", w.Email)
	}
	return nil
}

// WaitlistNewestFirst is the waitlist table's natural order.
func WaitlistNewestFirst(a, b *WaitlistEntry) bool {
	if !a.JoinedAt.Equal(b.JoinedAt) {
		return a.JoinedAt.After(b.JoinedAt)
	}
	return a.ID > b.ID
}

// RecentMembers returns the newest n entries for the avatar strip. Entries
// arrive most-recent-first, so this is simply the head of the snapshot.
func RecentMembers(entries []*WaitlistEntry, n int) []*WaitlistEntry {
	if len(entries) < n {
		n = len(entries)
	}
	return entries[:n]
}
