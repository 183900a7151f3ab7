package site

import "time"

// SeedTools returns the default tools written once when the tools table is
// first observed empty. IDs are fixed so the seed sorts deterministically
// when created_at ties.
func SeedTools() []*Tool {
	now := time.Now().UTC()
	return []*Tool{
		{
			ID:          "1",
			Name:        "AI Resume Builder",
			Description: "Get a professional resume in 10 minutes via chat",
			Status:      StatusLive,
			Icon:        "📄",
			Buttons: []ToolButton{
				{Name: "WhatsApp", Link: "#"},
				{Name: "Telegram", Link: "#"},
			},
			CreatedAt: now,
		},
		{
			ID:          "2",
			Name:        "AI Logo Maker",
			Description: "Create stunning brand assets in seconds",
			Status:      StatusComingSoon,
			Icon:        "🎨",
			LaunchDays:  "15 Days",
			Buttons:     []ToolButton{{Name: "Notify Me", Link: ""}},
			CreatedAt:   now,
		},
		{
			ID:          "3",
			Name:        "AI Email Writer",
			Description: "Perfect business emails instantly",
			Status:      StatusComingSoon,
			Icon:        "✉️",
			LaunchDays:  "30 Days",
			Buttons:     []ToolButton{{Name: "Notify Me", Link: ""}},
			CreatedAt:   now,
		},
	}
}

// IconOptions are the glyphs the admin form offers for a tool card.
var IconOptions = []string{
	"🤖", "📄", "🎨", "✉️", "📊", "🔧", "🎯", "💡",
	"🧠", "⚡", "📱", "🎬", "📝", "🔍", "💬", "🛡️",
}

// LaunchTimelines are the selectable countdown labels for COMING SOON tools.
var LaunchTimelines = []string{"7 Days", "15 Days", "30 Days", "45 Days", "60 Days"}
