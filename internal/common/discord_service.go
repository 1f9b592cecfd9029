package common

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"levant-va/tower/internal/constants"
)

// NotificationEventType selects the webhook and embed template.
type NotificationEventType string

const (
	EventTakeoff       NotificationEventType = "takeoff"
	EventLanding       NotificationEventType = "landing"
	EventRankPromotion NotificationEventType = "rank_promotion"
	EventModeration    NotificationEventType = "moderation"
	EventError         NotificationEventType = "error"
)

// NotificationEvent is one queued webhook notification. Fields carries the
// template-specific values (origin, landing_rate, rank_name, ...).
type NotificationEvent struct {
	Type      NotificationEventType `json:"type"`
	PilotName string                `json:"pilot_name"`
	PilotID   string                `json:"pilot_id"`
	Fields    map[string]string     `json:"fields"`
	CreatedAt time.Time             `json:"created_at"`
}

type discordEmbed struct {
	Title       string              `json:"title,omitempty"`
	Description string              `json:"description,omitempty"`
	Color       int                 `json:"color,omitempty"`
	Footer      *discordEmbedFooter `json:"footer,omitempty"`
	Timestamp   string              `json:"timestamp,omitempty"`
	Author      *discordEmbedAuthor `json:"author,omitempty"`
	Thumbnail   *discordEmbedImage  `json:"thumbnail,omitempty"`
}

type discordEmbedFooter struct {
	Text    string `json:"text"`
	IconURL string `json:"icon_url,omitempty"`
}

type discordEmbedAuthor struct {
	Name    string `json:"name"`
	IconURL string `json:"icon_url,omitempty"`
}

type discordEmbedImage struct {
	URL string `json:"url"`
}

type discordWebhookPayload struct {
	Content   string         `json:"content"`
	Embeds    []discordEmbed `json:"embeds,omitempty"`
	Username  string         `json:"username,omitempty"`
	AvatarURL string         `json:"avatar_url,omitempty"`
}

// DiscordService delivers chat-webhook notifications. Every send is
// best-effort: errors are returned for logging, never acted on.
type DiscordService struct {
	Client   *http.Client
	webhooks map[NotificationEventType]string
	logoURL  string
	footer   string
}

func NewDiscordService() *DiscordService {
	return &DiscordService{
		Client: &http.Client{Timeout: 10 * time.Second},
		webhooks: map[NotificationEventType]string{
			EventTakeoff:       os.Getenv("DISCORD_WEBHOOK_TAKEOFF"),
			EventLanding:       os.Getenv("DISCORD_WEBHOOK_LANDING"),
			EventRankPromotion: os.Getenv("DISCORD_WEBHOOK_RANK_PROMOTE"),
			EventModeration:    os.Getenv("DISCORD_MOD_WEBHOOK"),
			EventError:         os.Getenv("DISCORD_WEBHOOK_ERROR_LOG"),
		},
		logoURL: os.Getenv("DISCORD_AVATAR_URL"),
		footer:  "Levant Virtual Airlines",
	}
}

// Send builds the embed for the event type and posts it to the matching
// webhook. A missing webhook URL is not an error; the category is just off.
func (s *DiscordService) Send(ctx context.Context, event *NotificationEvent) error {
	webhookURL := s.webhooks[event.Type]
	if webhookURL == "" {
		return nil
	}

	payload := discordWebhookPayload{
		Embeds:    []discordEmbed{s.buildEmbed(event)},
		Username:  "Levant Operations",
		AvatarURL: s.logoURL,
	}

	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook delivery failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook [%s] returned %d: %s", event.Type, resp.StatusCode, body)
	}
	return nil
}

func (s *DiscordService) buildEmbed(event *NotificationEvent) discordEmbed {
	embed := discordEmbed{
		Footer:    &discordEmbedFooter{Text: s.footer, IconURL: s.logoURL},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	f := event.Fields

	switch event.Type {
	case EventTakeoff:
		embed.Author = &discordEmbedAuthor{Name: "FLIGHT DEPARTED", IconURL: s.logoURL}
		embed.Title = fmt.Sprintf("🛫 %s — Airborne from %s", f["callsign"], f["origin"])
		embed.Description = fmt.Sprintf(
			"> **%s** (`%s`) has departed.\n\n📍 **Route:** `%s` ✈️ `%s`\n✈️ **Aircraft:** %s\n📡 **Callsign:** %s",
			event.PilotName, event.PilotID, f["origin"], f["destination"], f["aircraft"], f["callsign"])
		embed.Color = 0x3498DB

	case EventLanding:
		rate, _ := strconv.Atoi(f["landing_rate"])
		embed.Author = &discordEmbedAuthor{Name: "FLIGHT ARRIVED", IconURL: s.logoURL}
		embed.Title = fmt.Sprintf("🛬 %s — Landed at %s", f["callsign"], f["destination"])
		embed.Description = fmt.Sprintf(
			"> **%s** (`%s`) has completed their flight.\n\n📉 **Landing Rate:** %d fpm\n🎯 **Grade:** %s\n⭐ **Flight Score:** %s/100",
			event.PilotName, event.PilotID, rate, LandingGrade(rate), f["score"])
		embed.Color = landingColor(rate)

	case EventRankPromotion:
		embed.Author = &discordEmbedAuthor{Name: "RANK PROMOTION", IconURL: s.logoURL}
		embed.Title = fmt.Sprintf("🎖️ %s has been promoted!", event.PilotName)
		embed.Description = fmt.Sprintf(
			"> **%s** (`%s`) has earned a new rank.\n\n👑 **New Rank:** %s\n📋 **Status:** Active Duty",
			event.PilotName, event.PilotID, f["rank_name"])
		embed.Color = 0xD4AF37
		if img := f["rank_image_url"]; img != "" {
			embed.Thumbnail = &discordEmbedImage{URL: img}
		}

	case EventModeration:
		embed.Author = &discordEmbedAuthor{Name: "MODERATION ALERT", IconURL: s.logoURL}
		embed.Title = moderationTitle(f["category"])
		embed.Description = fmt.Sprintf("> **Pilot:** %s (`%s`)\n\n%s",
			event.PilotName, event.PilotID, f["details"])
		embed.Color = moderationColor(f["category"])
		embed.Footer.Text = s.footer + " • Moderation System"

	case EventError:
		embed.Author = &discordEmbedAuthor{Name: "SYSTEM ALERT", IconURL: s.logoURL}
		embed.Title = fmt.Sprintf("🚨 %s", f["title"])
		embed.Description = fmt.Sprintf("```\n%s\n```", f["message"])
		embed.Color = 0xE74C3C
	}

	return embed
}

// LandingGrade maps an absolute landing rate to the community label.
func LandingGrade(rate int) string {
	abs := rate
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs <= 60:
		return "🧈 Butter!"
	case abs <= 150:
		return "✅ Smooth"
	case abs <= 300:
		return "👍 Acceptable"
	case abs <= 500:
		return "⚠️ Firm"
	default:
		return "💥 Hard Landing"
	}
}

func landingColor(rate int) int {
	abs := rate
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs <= 150:
		return 0x2ECC71
	case abs <= 300:
		return 0xF1C40F
	case abs <= 500:
		return 0xE67E22
	default:
		return 0xE74C3C
	}
}

func moderationTitle(category string) string {
	switch category {
	case constants.ModSlewDetect:
		return "⚠️ Slew / Teleport Detected"
	case constants.ModHardLanding:
		return "💥 Hard Landing Flagged"
	case constants.ModBlacklist:
		return "🚫 Pilot Blacklisted"
	case constants.ModCheatFlag:
		return "🔴 Cheat Flag Raised"
	default:
		return "Moderation Alert"
	}
}

func moderationColor(category string) int {
	switch category {
	case constants.ModSlewDetect:
		return 0xFF6B35
	case constants.ModHardLanding:
		return 0xF39C12
	default:
		return 0xE74C3C
	}
}
