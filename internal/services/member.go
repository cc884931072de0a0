package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/stylecast-backend/internal/logger"
	"github.com/yungbote/stylecast-backend/internal/repos"
	"github.com/yungbote/stylecast-backend/internal/types"
)

type MemberInput struct {
	Name      string       `json:"name"`
	Body      *BodyProfile `json:"body,omitempty"`
	StyleTags string       `json:"styleTags,omitempty"`
	PhotoURL  string       `json:"photoUrl,omitempty"`
}

type MemberService interface {
	Create(ctx context.Context, input MemberInput) (*types.Member, error)
	Get(ctx context.Context, memberID int64) (*types.Member, error)
	List(ctx context.Context, page, size int) ([]*types.Member, int64, error)
	Update(ctx context.Context, memberID int64, input MemberInput) (*types.Member, error)
	Delete(ctx context.Context, memberID int64) error
}

type memberService struct {
	db         *gorm.DB
	log        *logger.Logger
	memberRepo repos.MemberRepo
}

func NewMemberService(db *gorm.DB, baseLog *logger.Logger, memberRepo repos.MemberRepo) MemberService {
	return &memberService{
		db:         db,
		log:        baseLog.With("service", "MemberService"),
		memberRepo: memberRepo,
	}
}

func (ms *memberService) Create(ctx context.Context, input MemberInput) (*types.Member, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, NewValidationError("member name is required")
	}
	if err := ValidateBodyProfile(input.Body); err != nil {
		return nil, err
	}
	bodyData, err := MarshalBodyProfile(input.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode body data: %w", err)
	}

	member := &types.Member{
		Name:      name,
		BodyData:  bodyData,
		StyleTags: strings.TrimSpace(input.StyleTags),
		PhotoURL:  strings.TrimSpace(input.PhotoURL),
	}
	if _, err := ms.memberRepo.Create(ctx, nil, []*types.Member{member}); err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}
	return member, nil
}

func (ms *memberService) Get(ctx context.Context, memberID int64) (*types.Member, error) {
	member, err := ms.memberRepo.GetActiveByID(ctx, nil, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to load member: %w", err)
	}
	if member == nil {
		return nil, NewNotFoundError("member %d not found", memberID)
	}
	return member, nil
}

func (ms *memberService) List(ctx context.Context, page, size int) ([]*types.Member, int64, error) {
	return ms.memberRepo.ListActive(ctx, nil, page, size)
}

func (ms *memberService) Update(ctx context.Context, memberID int64, input MemberInput) (*types.Member, error) {
	member, err := ms.Get(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if err := ValidateBodyProfile(input.Body); err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		member.Name = name
	}
	if input.Body != nil {
		bodyData, err := MarshalBodyProfile(input.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode body data: %w", err)
		}
		member.BodyData = bodyData
	}
	if input.StyleTags != "" {
		member.StyleTags = strings.TrimSpace(input.StyleTags)
	}
	if input.PhotoURL != "" {
		member.PhotoURL = strings.TrimSpace(input.PhotoURL)
	}

	if err := ms.memberRepo.Update(ctx, nil, member); err != nil {
		return nil, fmt.Errorf("failed to update member: %w", err)
	}
	return member, nil
}

func (ms *memberService) Delete(ctx context.Context, memberID int64) error {
	if _, err := ms.Get(ctx, memberID); err != nil {
		return err
	}
	if err := ms.memberRepo.SoftDelete(ctx, nil, memberID); err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	return nil
}
