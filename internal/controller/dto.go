package controller

import (
	"skillswap_backend/internal/model"
	"time"
)

// UserDTO 不包含密码
type UserDTO struct {
	ID           uint      `json:"id"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	Location     string    `json:"location"`
	ProfilePhoto string    `json:"profilePhoto"`
	Availability string    `json:"availability"`
	IsPublic     bool      `json:"isPublic"`
	IsAdmin      bool      `json:"isAdmin"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

type SkillDTO struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsOffered   bool   `json:"isOffered"`
	IsApproved  bool   `json:"isApproved"`
	UserID      uint   `json:"userId"`
	Username    string `json:"username,omitempty"`
}

type SwapRequestDTO struct {
	ID                 uint             `json:"id"`
	RequesterID        uint             `json:"requesterId"`
	RequesterUsername  string           `json:"requesterUsername,omitempty"`
	ProviderID         uint             `json:"providerId"`
	ProviderUsername   string           `json:"providerUsername,omitempty"`
	RequestedSkillID   uint             `json:"requestedSkillId"`
	RequestedSkillName string           `json:"requestedSkillName,omitempty"`
	OfferedSkillID     uint             `json:"offeredSkillId"`
	OfferedSkillName   string           `json:"offeredSkillName,omitempty"`
	RequestDate        time.Time        `json:"requestDate"`
	ResponseDate       *time.Time       `json:"responseDate"`
	Status             model.SwapStatus `json:"status"`
	Message            string           `json:"message"`
}

type FeedbackDTO struct {
	ID                uint      `json:"id"`
	ReviewerID        uint      `json:"reviewerId"`
	ReviewerUsername  string    `json:"reviewerUsername,omitempty"`
	RecipientID       uint      `json:"recipientId"`
	RecipientUsername string    `json:"recipientUsername,omitempty"`
	SwapRequestID     uint      `json:"swapRequestId"`
	Rating            int       `json:"rating"`
	Comment           string    `json:"comment"`
	CreatedAt         time.Time `json:"createdAt"`
}

type AuthResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	UserID   uint   `json:"userId"`
	IsAdmin  bool   `json:"isAdmin"`
}

// AverageRatingResponse averageRating 为 null 表示还没有评价
type AverageRatingResponse struct {
	UserID        uint     `json:"userId"`
	AverageRating *float64 `json:"averageRating"`
}

func ToUserDTO(u *model.User) UserDTO {
	return UserDTO{
		ID:           u.ID,
		Username:     u.Username,
		Name:         u.Name,
		Location:     u.Location,
		ProfilePhoto: u.ProfilePhoto,
		Availability: u.Availability,
		IsPublic:     u.IsPublic,
		IsAdmin:      u.IsAdmin,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
	}
}

func ToUserDTOs(users []model.User) []UserDTO {
	out := make([]UserDTO, 0, len(users))
	for i := range users {
		out = append(out, ToUserDTO(&users[i]))
	}
	return out
}

func ToSkillDTO(s *model.Skill) SkillDTO {
	dto := SkillDTO{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		IsOffered:   s.IsOffered,
		IsApproved:  s.IsApproved,
		UserID:      s.UserID,
	}
	if s.User != nil {
		dto.Username = s.User.Username
	}
	return dto
}

func ToSkillDTOs(skills []model.Skill) []SkillDTO {
	out := make([]SkillDTO, 0, len(skills))
	for i := range skills {
		out = append(out, ToSkillDTO(&skills[i]))
	}
	return out
}

func ToSwapRequestDTO(r *model.SwapRequest) SwapRequestDTO {
	dto := SwapRequestDTO{
		ID:               r.ID,
		RequesterID:      r.RequesterID,
		ProviderID:       r.ProviderID,
		RequestedSkillID: r.RequestedSkillID,
		OfferedSkillID:   r.OfferedSkillID,
		RequestDate:      r.RequestDate,
		ResponseDate:     r.ResponseDate,
		Status:           r.Status,
		Message:          r.Message,
	}
	if r.Requester != nil {
		dto.RequesterUsername = r.Requester.Username
	}
	if r.Provider != nil {
		dto.ProviderUsername = r.Provider.Username
	}
	if r.RequestedSkill != nil {
		dto.RequestedSkillName = r.RequestedSkill.Name
	}
	if r.OfferedSkill != nil {
		dto.OfferedSkillName = r.OfferedSkill.Name
	}
	return dto
}

func ToSwapRequestDTOs(reqs []model.SwapRequest) []SwapRequestDTO {
	out := make([]SwapRequestDTO, 0, len(reqs))
	for i := range reqs {
		out = append(out, ToSwapRequestDTO(&reqs[i]))
	}
	return out
}

func ToFeedbackDTO(f *model.Feedback) FeedbackDTO {
	dto := FeedbackDTO{
		ID:            f.ID,
		ReviewerID:    f.ReviewerID,
		RecipientID:   f.RecipientID,
		SwapRequestID: f.SwapRequestID,
		Rating:        f.Rating,
		Comment:       f.Comment,
		CreatedAt:     f.CreatedAt,
	}
	if f.Reviewer != nil {
		dto.ReviewerUsername = f.Reviewer.Username
	}
	if f.Recipient != nil {
		dto.RecipientUsername = f.Recipient.Username
	}
	return dto
}

func ToFeedbackDTOs(list []model.Feedback) []FeedbackDTO {
	out := make([]FeedbackDTO, 0, len(list))
	for i := range list {
		out = append(out, ToFeedbackDTO(&list[i]))
	}
	return out
}
