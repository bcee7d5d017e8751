package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cursomc/commerce-api/internal/core/domain"
	"github.com/cursomc/commerce-api/internal/core/policy"
	"github.com/cursomc/commerce-api/internal/core/ports"
	"github.com/cursomc/commerce-api/internal/core/principal"
)

// DefaultProfilePrefix is the object key prefix for customer profile pictures.
const DefaultProfilePrefix = "cp"

type customerService struct {
	repo    ports.CustomerRepository
	encoder ports.PasswordEncoder
	images  ports.ImageNormalizer
	store   ports.ObjectStore
	prefix  string
	log     zerolog.Logger
	nowFunc func() time.Time
}

// NewCustomerService returns a CustomerService implementation. Profile
// pictures are stored under prefix followed by the customer id and ".jpg".
func NewCustomerService(
	repo ports.CustomerRepository,
	encoder ports.PasswordEncoder,
	images ports.ImageNormalizer,
	store ports.ObjectStore,
	prefix string,
	log zerolog.Logger,
) ports.CustomerService {
	if prefix == "" {
		prefix = DefaultProfilePrefix
	}
	return &customerService{
		repo:    repo,
		encoder: encoder,
		images:  images,
		store:   store,
		prefix:  prefix,
		log:     log,
		nowFunc: func() time.Time { return time.Now().UTC() },
	}
}

// authorize turns a policy decision into an error, logging denials with
// their cause.
func (s *customerService) authorize(op string, p *domain.Principal, d policy.Decision) error {
	if d.Allowed() {
		return nil
	}
	ev := s.log.Warn().Str("op", op).Str("cause", d.String())
	if p != nil {
		ev = ev.Int64("principal_id", p.ID)
	}
	ev.Msg("access denied")
	return fmt.Errorf("%s: %w", op, d.Err())
}

func (s *customerService) Find(ctx context.Context, id int64) (*domain.Customer, error) {
	p := principal.Current(ctx)
	if err := s.authorize("find customer", p, policy.CanAccessCustomer(p, id)); err != nil {
		return nil, err
	}

	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find customer %d: %w", id, err)
	}
	return c, nil
}

func (s *customerService) FindByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	p := principal.Current(ctx)
	if err := s.authorize("find customer by email", p, policy.CanAccessCustomerByEmail(p, email)); err != nil {
		return nil, err
	}

	c, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find customer by email: %w", err)
	}
	return c, nil
}

// Insert registers a new customer. It is open to anonymous callers.
func (s *customerService) Insert(ctx context.Context, input ports.NewCustomerInput) (*domain.Customer, error) {
	ctype, err := domain.ParseCustomerType(input.Type)
	if err != nil {
		return nil, err
	}

	hash, err := s.encoder.Encode(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	phones := []string{input.Phone1}
	for _, ph := range []string{input.Phone2, input.Phone3} {
		if strings.TrimSpace(ph) != "" {
			phones = append(phones, ph)
		}
	}

	now := s.nowFunc()
	customer := &domain.Customer{
		Name:         input.Name,
		Email:        input.Email,
		Document:     input.Document,
		Type:         ctype,
		PasswordHash: hash,
		Roles:        []domain.Role{domain.RoleRegular},
		Addresses: []domain.Address{{
			Street:     input.Street,
			Number:     input.Number,
			Complement: input.Complement,
			District:   input.District,
			ZipCode:    input.ZipCode,
			CityID:     input.CityID,
		}},
		Phones:    phones,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.repo.Create(ctx, customer)
	if err != nil {
		s.log.Error().Err(err).Str("email", input.Email).Msg("failed to create customer")
		return nil, fmt.Errorf("insert customer: %w", err)
	}

	s.log.Info().Int64("customer_id", created.ID).Msg("customer created")
	return created, nil
}

// Update changes name and email only; every other field keeps its stored value.
func (s *customerService) Update(ctx context.Context, id int64, input ports.UpdateCustomerInput) (*domain.Customer, error) {
	current, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	current.Name = input.Name
	current.Email = input.Email
	current.UpdatedAt = s.nowFunc()

	updated, err := s.repo.Update(ctx, current)
	if err != nil {
		return nil, fmt.Errorf("update customer %d: %w", id, err)
	}
	return updated, nil
}

func (s *customerService) Delete(ctx context.Context, id int64) error {
	p := principal.Current(ctx)
	if err := s.authorize("delete customer", p, policy.RequireAdmin(p)); err != nil {
		return err
	}

	if _, err := s.Find(ctx, id); err != nil {
		return err
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrIntegrityViolation) {
			s.log.Info().Int64("customer_id", id).Msg("delete refused: customer has orders")
			return fmt.Errorf("delete customer %d: %w", id, domain.ErrHasDependents)
		}
		return fmt.Errorf("delete customer %d: %w", id, err)
	}

	s.log.Info().Int64("customer_id", id).Msg("customer deleted")
	return nil
}

func (s *customerService) ListAll(ctx context.Context) ([]*domain.Customer, error) {
	p := principal.Current(ctx)
	if err := s.authorize("list customers", p, policy.RequireAdmin(p)); err != nil {
		return nil, err
	}

	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return all, nil
}

// ListPage passes page, size and sort field to the repository unchanged.
func (s *customerService) ListPage(ctx context.Context, input ports.ListCustomersInput) (*domain.Page[*domain.Customer], error) {
	p := principal.Current(ctx)
	if err := s.authorize("list customers page", p, policy.RequireAdmin(p)); err != nil {
		return nil, err
	}

	dir, err := domain.ParseSortDirection(input.Direction)
	if err != nil {
		return nil, err
	}

	page, err := s.repo.FindPage(ctx, domain.PageRequest{
		Page:      input.Page,
		Size:      input.Size,
		SortField: input.SortField,
		Direction: dir,
	})
	if err != nil {
		return nil, fmt.Errorf("list customers page: %w", err)
	}
	return page, nil
}

// UploadProfilePicture always targets the caller's own picture.
func (s *customerService) UploadProfilePicture(ctx context.Context, upload domain.UploadedImage) (string, error) {
	p := principal.Current(ctx)
	if err := s.authorize("upload profile picture", p, policy.CanUpload(p)); err != nil {
		return "", err
	}

	img, err := s.images.Normalize(upload)
	if err != nil {
		return "", fmt.Errorf("normalize picture: %w", err)
	}

	key := s.profilePictureKey(p.ID)
	locator, err := s.store.Store(ctx, key, img.Data, img.ContentType)
	if err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("failed to store profile picture")
		return "", fmt.Errorf("store picture %s: %w", key, err)
	}

	s.log.Info().Int64("customer_id", p.ID).Str("key", key).Msg("profile picture stored")
	return locator, nil
}

// profilePictureKey is the object key for customer id's picture.
func (s *customerService) profilePictureKey(id int64) string {
	return s.prefix + strconv.FormatInt(id, 10) + ".jpg"
}
