package operations

import (
	"context"
	"strings"

	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/evolution"
	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/validation"
)

// CheckNumbers reports which numbers have a WhatsApp account.
func (s *Service) CheckNumbers(ctx context.Context, in CheckNumberInput) (NumberCheckList, error) {
	raw := in.Numbers
	if strings.TrimSpace(in.Number) != "" {
		raw = append([]string{in.Number}, raw...)
	}
	if len(raw) == 0 {
		return NumberCheckList{}, &validation.FieldError{Field: "number", Rule: "required", Message: "number or numbers is required"}
	}
	if len(raw) > validation.MaxNumbers {
		return NumberCheckList{}, &validation.FieldError{Field: "numbers", Rule: "max", Message: "too many numbers, maximum 50"}
	}

	numbers := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, r := range raw {
		n, err := validation.NormalizePhone(r)
		if err != nil {
			return NumberCheckList{}, err
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		numbers = append(numbers, n)
	}

	checks, err := s.gw.WhatsAppNumbers(ctx, numbers)
	if err != nil {
		return NumberCheckList{}, err
	}

	byNumber := make(map[string]evolution.NumberCheck, len(checks))
	for _, c := range checks {
		key := evolution.UserPart(c.JID)
		if key == "" {
			key = c.Number
		}
		byNumber[key] = c
	}

	out := make([]NumberStatus, 0, len(numbers))
	for _, n := range numbers {
		status := NumberStatus{Number: n}
		if c, ok := byNumber[n]; ok && c.Exists {
			status.Exists = true
			status.ChatID = c.JID
		}
		out = append(out, status)
	}
	return NumberCheckList{Results: out, Count: len(out)}, nil
}

func (s *Service) GetProfilePicture(ctx context.Context, in ProfileInput) (ProfilePicture, error) {
	number, err := validation.NormalizePhone(in.Number)
	if err != nil {
		return ProfilePicture{}, err
	}
	pic, err := s.gw.FetchProfilePicture(ctx, number)
	if err != nil {
		return ProfilePicture{}, err
	}

	out := ProfilePicture{Number: number, ChatID: evolution.UserJID(number)}
	if url := strings.TrimSpace(pic.ProfilePictureURL); url != "" {
		out.URL = &url
	}
	return out, nil
}

// GetProfile returns the public profile of a number. A missing profile name
// falls back to the contact directory.
func (s *Service) GetProfile(ctx context.Context, in ProfileInput) (Profile, error) {
	number, err := validation.NormalizePhone(in.Number)
	if err != nil {
		return Profile{}, err
	}
	p, err := s.gw.FetchProfile(ctx, number)
	if err != nil {
		return Profile{}, err
	}

	chatID := evolution.UserJID(number)
	out := Profile{
		Number:      number,
		ChatID:      chatID,
		Exists:      p.NumberExists,
		PictureURL:  p.Picture,
		IsBusiness:  p.IsBusiness,
		Email:       p.Email,
		Description: p.Description,
		Website:     p.Website,
	}
	if name := strings.TrimSpace(p.Name); name != "" {
		out.Name = &name
	} else {
		out.Name = s.enricher.Name(ctx, chatID)
	}
	if status := strings.TrimSpace(p.Status.Text); status != "" {
		out.Status = &status
	}
	return out, nil
}

func (s *Service) GetBusinessProfile(ctx context.Context, in ProfileInput) (BusinessProfile, error) {
	number, err := validation.NormalizePhone(in.Number)
	if err != nil {
		return BusinessProfile{}, err
	}
	p, err := s.gw.FetchBusinessProfile(ctx, number)
	if err != nil {
		return BusinessProfile{}, err
	}
	return BusinessProfile{
		Number:      number,
		ChatID:      evolution.UserJID(number),
		IsBusiness:  p.IsBusiness,
		Email:       p.Email,
		Description: p.Description,
		Address:     p.Address,
		Category:    p.Category,
		Website:     p.Website,
	}, nil
}
