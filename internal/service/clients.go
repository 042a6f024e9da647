package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/vjamst/meestercrm/internal/clock"
	"github.com/vjamst/meestercrm/internal/domain"
	"github.com/vjamst/meestercrm/internal/money"
)

type ClientsStore interface {
	ListClients(ctx context.Context) ([]domain.Client, error)
	InsertClient(ctx context.Context, c domain.Client) error
	UpdateClient(ctx context.Context, c domain.Client) error
	DeleteClient(ctx context.Context, id string) error
}

type Clients interface {
	List(ctx context.Context) ([]ClientView, error)
	Create(ctx context.Context, params ClientParams) (domain.Client, error)
	Update(ctx context.Context, id string, params ClientParams) error
	Delete(ctx context.Context, id string) error
}

type clients struct {
	store ClientsStore
	clock clock.Clock
}

func NewClients(store ClientsStore, clk clock.Clock) *clients {
	return &clients{store: store, clock: clk}
}

type ClientView struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
	HourlyRate float64 `json:"hourlyRate"`
	RateText   string  `json:"rateText"`
	Notes      string  `json:"notes"`
}

func (s *clients) List(ctx context.Context) ([]ClientView, error) {
	list, err := s.store.ListClients(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]ClientView, 0, len(list))
	for _, c := range list {
		views = append(views, ClientView{
			ID:         c.ID,
			Name:       c.Name,
			Email:      c.Email,
			Phone:      c.Phone,
			HourlyRate: c.HourlyRate,
			RateText:   money.Format(c.HourlyRate),
			Notes:      c.Notes,
		})
	}
	return views, nil
}

type ClientParams struct {
	Name  string
	Email string
	Phone string
	Rate  string
	Notes string
}

func (p ClientParams) toDomain() (domain.Client, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return domain.Client{}, domain.Invalid("name", "a client name is required")
	}

	var rate float64
	if strings.TrimSpace(p.Rate) != "" {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(p.Rate), 64)
		if err != nil {
			return domain.Client{}, domain.Invalid("rate", "hourly rate must be a number")
		}
		if parsed < 0 {
			return domain.Client{}, domain.Invalid("rate", "hourly rate cannot be negative")
		}
		rate = parsed
	}

	return domain.Client{
		Name:       name,
		Email:      strings.TrimSpace(p.Email),
		Phone:      strings.TrimSpace(p.Phone),
		HourlyRate: rate,
		Notes:      p.Notes,
	}, nil
}

func (s *clients) Create(ctx context.Context, params ClientParams) (domain.Client, error) {
	client, err := params.toDomain()
	if err != nil {
		return domain.Client{}, err
	}
	client.ID = uuid.NewString()
	client.CreatedAt = s.clock.Now()

	if err := s.store.InsertClient(ctx, client); err != nil {
		return domain.Client{}, err
	}
	return client, nil
}

func (s *clients) Update(ctx context.Context, id string, params ClientParams) error {
	if id == "" {
		return domain.Invalid("client", "a client id is required")
	}
	client, err := params.toDomain()
	if err != nil {
		return err
	}
	client.ID = id
	return s.store.UpdateClient(ctx, client)
}

func (s *clients) Delete(ctx context.Context, id string) error {
	if id == "" {
		return domain.Invalid("client", "a client id is required")
	}
	return s.store.DeleteClient(ctx, id)
}
