package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/aizatop/alive/internal/pkg/errs"
	"github.com/aizatop/alive/internal/pkg/logx"
)

// CreateProfile inserts the profile row for the signed-in identity.
func (c *Client) CreateProfile(ctx context.Context, username, country string) (*Profile, *errs.CustomError) {
	var payload struct {
		Profile Profile `json:"profile"`
	}
	customErr := c.do(ctx, http.MethodPost, "/api/users/", map[string]string{
		"username": username,
		"country":  country,
	}, &payload)
	if customErr != nil {
		return nil, customErr
	}
	return &payload.Profile, nil
}

// UserProfile fetches a profile by user id.
func (c *Client) UserProfile(ctx context.Context, id string) (*Profile, *errs.CustomError) {
	var payload struct {
		Profile Profile `json:"profile"`
	}
	customErr := c.do(ctx, http.MethodGet, "/api/users/"+url.PathEscape(id), nil, &payload)
	if customErr != nil {
		return nil, customErr
	}
	return &payload.Profile, nil
}

// UpdateUserProfile patches the signed-in user's profile.
func (c *Client) UpdateUserProfile(ctx context.Context, id string, patch ProfilePatch) (*Profile, *errs.CustomError) {
	var payload struct {
		Profile Profile `json:"profile"`
	}
	customErr := c.do(ctx, http.MethodPatch, "/api/users/"+url.PathEscape(id), patch, &payload)
	if customErr != nil {
		return nil, customErr
	}
	return &payload.Profile, nil
}

// PresignAvatarUpload asks the service for a short-lived upload URL for a
// new avatar image.
func (c *Client) PresignAvatarUpload(ctx context.Context, mimeType string, fileSize int64) (uploadURL, key string, customErr *errs.CustomError) {
	var payload struct {
		UploadURL string `json:"uploadUrl"`
		Key       string `json:"key"`
	}
	customErr = c.do(ctx, http.MethodPost, "/api/users/avatar/presign", map[string]any{
		"mimeType": mimeType,
		"fileSize": fileSize,
	}, &payload)
	if customErr != nil {
		return "", "", customErr
	}
	return payload.UploadURL, payload.Key, nil
}

// RecordVisit appends one visit telemetry row. Failures are logged and
// returned, but callers treat this as fire-and-forget: a lost visit row
// never interrupts the user.
func (c *Client) RecordVisit(ctx context.Context, country string, durationMinutes int) *errs.CustomError {
	customErr := c.do(ctx, http.MethodPost, "/api/visits/", map[string]any{
		"country":         country,
		"durationMinutes": durationMinutes,
	}, nil)
	if customErr != nil {
		logx.Warn("Failed to record visit", "country", country, "code", customErr.Code)
	}
	return customErr
}

// UserVisits lists the signed-in user's visits, newest first.
func (c *Client) UserVisits(ctx context.Context) ([]Visit, *errs.CustomError) {
	var payload struct {
		Visits []Visit `json:"visits"`
	}
	if customErr := c.do(ctx, http.MethodGet, "/api/visits/", nil, &payload); customErr != nil {
		return nil, customErr
	}
	return payload.Visits, nil
}

// SendFriendRequest creates a pending relationship toward another user.
func (c *Client) SendFriendRequest(ctx context.Context, friendID string) (*Friend, *errs.CustomError) {
	var payload struct {
		Request Friend `json:"request"`
	}
	customErr := c.do(ctx, http.MethodPost, "/api/friends/request", map[string]string{
		"friendId": friendID,
	}, &payload)
	if customErr != nil {
		return nil, customErr
	}
	return &payload.Request, nil
}

// AcceptFriendRequest accepts a pending request from the given user.
func (c *Client) AcceptFriendRequest(ctx context.Context, friendID string) (*Friend, *errs.CustomError) {
	var payload struct {
		Friend Friend `json:"friend"`
	}
	customErr := c.do(ctx, http.MethodPost, "/api/friends/accept", map[string]string{
		"friendId": friendID,
	}, &payload)
	if customErr != nil {
		return nil, customErr
	}
	return &payload.Friend, nil
}

// UserFriends lists the signed-in user's accepted friends.
func (c *Client) UserFriends(ctx context.Context) ([]FriendEntry, *errs.CustomError) {
	var payload struct {
		Friends []FriendEntry `json:"friends"`
	}
	if customErr := c.do(ctx, http.MethodGet, "/api/friends/", nil, &payload); customErr != nil {
		return nil, customErr
	}
	return payload.Friends, nil
}

// SendMessage sends a direct message to another user.
func (c *Client) SendMessage(ctx context.Context, recipientID, content string) (*DirectMessage, *errs.CustomError) {
	var payload struct {
		Message DirectMessage `json:"message"`
	}
	customErr := c.do(ctx, http.MethodPost, "/api/messages/", map[string]string{
		"recipientId": recipientID,
		"content":     content,
	}, &payload)
	if customErr != nil {
		return nil, customErr
	}
	return &payload.Message, nil
}

// Messages lists the conversation with another user, oldest first.
func (c *Client) Messages(ctx context.Context, withID string) ([]DirectMessage, *errs.CustomError) {
	var payload struct {
		Messages []DirectMessage `json:"messages"`
	}
	path := "/api/messages/?with=" + url.QueryEscape(withID)
	if customErr := c.do(ctx, http.MethodGet, path, nil, &payload); customErr != nil {
		return nil, customErr
	}
	return payload.Messages, nil
}

// RoomMessages lists the community room history, oldest first.
func (c *Client) RoomMessages(ctx context.Context) ([]RoomMessage, *errs.CustomError) {
	var payload struct {
		Messages []RoomMessage `json:"messages"`
	}
	if customErr := c.do(ctx, http.MethodGet, "/api/room/messages", nil, &payload); customErr != nil {
		return nil, customErr
	}
	return payload.Messages, nil
}

// SendRoomMessage posts to the community room.
func (c *Client) SendRoomMessage(ctx context.Context, content string) (*RoomMessage, *errs.CustomError) {
	var payload struct {
		Message RoomMessage `json:"message"`
	}
	customErr := c.do(ctx, http.MethodPost, "/api/room/messages", map[string]string{
		"content": content,
	}, &payload)
	if customErr != nil {
		return nil, customErr
	}
	return &payload.Message, nil
}
