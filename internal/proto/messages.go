package proto

import "github.com/dmitrijs2005/dailyjournal/internal/journal"

// Entry is a journal page on the wire. Date uses common.DateLayout.
type Entry struct {
	ID        string          `json:"id"`
	Date      string          `json:"date"`
	Content   journal.Content `json:"content"`
	HasDoodle bool            `json:"hasDoodle"`
	UpdatedAt string          `json:"updatedAt,omitempty"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	UserID       string `json:"userId"`
	Email        string `json:"email"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type LogoutResponse struct{}

// GetDashboardRequest carries the client's local calendar day. An empty
// Date lets the server pick today in its configured time zone.
type GetDashboardRequest struct {
	Date string `json:"date,omitempty"`
}

type GetDashboardResponse struct {
	TotalEntries   int64  `json:"totalEntries"`
	Streak         int    `json:"streak"`
	TodayCompleted bool   `json:"todayCompleted"`
	TodayEntry     *Entry `json:"todayEntry,omitempty"`
}

type GetEntryRequest struct {
	Date string `json:"date"`
}

type GetEntryResponse struct {
	Entry *Entry `json:"entry"`
}

type SaveEntryRequest struct {
	Date    string          `json:"date"`
	Content journal.Content `json:"content"`
}

type SaveEntryResponse struct {
	Entry *Entry `json:"entry"`
}

type RequestDoodleUploadRequest struct {
	Date string `json:"date"`
}

type RequestDoodleUploadResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type GetDoodleURLRequest struct {
	Date string `json:"date"`
}

type GetDoodleURLResponse struct {
	URL string `json:"url"`
}
