package operations

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	qrCode "github.com/skip2/go-qrcode"

	"github.com/gdbrns/go-whatsapp-mcp-gateway/internal/directory"
	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/evolution"
	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/log"
	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/validation"
)

const (
	stateOpen = "open"

	qrSize     = 256
	pngDataURI = "data:image/png;base64,"
)

func (s *Service) ConnectionStatus(ctx context.Context) (ConnectionStatus, error) {
	state, err := s.gw.ConnectionState(ctx)
	if err != nil {
		return ConnectionStatus{}, err
	}
	return ConnectionStatus{
		Instance:  state.Instance,
		State:     state.State,
		Connected: strings.EqualFold(state.State, stateOpen),
	}, nil
}

// InstanceInfo is the connection status plus the local contact cache state.
func (s *Service) InstanceInfo(ctx context.Context) (InstanceInfo, error) {
	status, err := s.ConnectionStatus(ctx)
	if err != nil {
		return InstanceInfo{}, err
	}
	return InstanceInfo{
		Instance:     status.Instance,
		State:        status.State,
		Connected:    status.Connected,
		ContactCache: s.CacheStatus(),
	}, nil
}

// QRCode asks for a pairing payload. When the gateway returns only the raw
// code, the PNG is rendered locally.
func (s *Service) QRCode(ctx context.Context) (QRCode, error) {
	code, err := s.gw.Connect(ctx)
	if err != nil {
		return QRCode{}, err
	}

	out := QRCode{
		Instance:    s.gw.Instance(),
		Code:        code.Code,
		PairingCode: code.PairingCode,
		Image:       code.Base64,
		Count:       code.Count,
	}
	if out.Image == "" && out.Code != "" {
		png, err := qrCode.Encode(out.Code, qrCode.Medium, qrSize)
		if err != nil {
			return QRCode{}, fmt.Errorf("render qr code: %w", err)
		}
		out.Image = pngDataURI + base64.StdEncoding.EncodeToString(png)
	}
	return out, nil
}

func (s *Service) SetPresence(ctx context.Context, in SetPresenceInput) (PresenceResult, error) {
	presence := strings.ToLower(strings.TrimSpace(in.Presence))
	if err := validation.ValidatePresence(presence); err != nil {
		return PresenceResult{}, err
	}

	var number string
	if strings.TrimSpace(in.Number) != "" {
		n, err := validation.NormalizePhone(in.Number)
		if err != nil {
			return PresenceResult{}, err
		}
		number = n
	}

	if err := s.gw.SetPresence(ctx, evolution.PresenceRequest{Presence: presence, Number: number}); err != nil {
		return PresenceResult{}, err
	}
	return PresenceResult{Presence: presence, Number: number}, nil
}

// ClearContactCache drops the contact directory; the next read reloads it.
func (s *Service) ClearContactCache(_ context.Context) CacheCleared {
	s.dir.Invalidate()
	log.Op("clear_contact_cache").Info("contact directory invalidated")
	return CacheCleared{Cleared: true, Message: "contact cache cleared"}
}

func (s *Service) CacheStatus() CacheStatus {
	st := s.dir.Stats()
	out := CacheStatus{
		Loaded:     st.Loaded,
		Entries:    st.Entries,
		AgeSeconds: int64(st.Age.Seconds()),
		TTLSeconds: int64(directory.TTL.Seconds()),
		Loads:      st.Loads,
	}
	if st.LoadedAt != nil {
		out.LoadedAt = st.LoadedAt.UTC().Format(time.RFC3339)
	}
	return out
}

// WarmContactCache loads the contact directory ahead of the first read.
func (s *Service) WarmContactCache(ctx context.Context) error {
	return s.dir.EnsureLoaded(ctx)
}
