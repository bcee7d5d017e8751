package service

import (
	"context"
	"sort"
	"strings"

	"github.com/cursomc/commerce-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub ports
// ---------------------------------------------------------------------------

type stubCustomerRepo struct {
	byID       map[int64]*domain.Customer
	withOrders map[int64]bool
	nextID     int64
	calls      int
	createErr  error
	lastPage   domain.PageRequest
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{
		byID:       make(map[int64]*domain.Customer),
		withOrders: make(map[int64]bool),
		nextID:     1,
	}
}

func cloneCustomer(c *domain.Customer) *domain.Customer {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Roles = append([]domain.Role(nil), c.Roles...)
	clone.Addresses = append([]domain.Address(nil), c.Addresses...)
	clone.Phones = append([]string(nil), c.Phones...)
	return &clone
}

func (r *stubCustomerRepo) seed(c *domain.Customer) {
	r.byID[c.ID] = cloneCustomer(c)
	if c.ID >= r.nextID {
		r.nextID = c.ID + 1
	}
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id int64) (*domain.Customer, error) {
	r.calls++
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	return cloneCustomer(c), nil
}

func (r *stubCustomerRepo) FindByEmail(_ context.Context, email string) (*domain.Customer, error) {
	r.calls++
	for _, c := range r.byID {
		if c.Email == email {
			return cloneCustomer(c), nil
		}
	}
	return nil, domain.ErrCustomerNotFound
}

func (r *stubCustomerRepo) Create(_ context.Context, c *domain.Customer) (*domain.Customer, error) {
	r.calls++
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, existing := range r.byID {
		if existing.Email == c.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	stored := cloneCustomer(c)
	stored.ID = r.nextID
	r.nextID++
	for i := range stored.Addresses {
		stored.Addresses[i].ID = int64(i + 1)
	}
	r.byID[stored.ID] = stored
	return cloneCustomer(stored), nil
}

func (r *stubCustomerRepo) Update(_ context.Context, c *domain.Customer) (*domain.Customer, error) {
	r.calls++
	if _, ok := r.byID[c.ID]; !ok {
		return nil, domain.ErrCustomerNotFound
	}
	r.byID[c.ID] = cloneCustomer(c)
	return cloneCustomer(c), nil
}

func (r *stubCustomerRepo) DeleteByID(_ context.Context, id int64) error {
	r.calls++
	if r.withOrders[id] {
		return domain.ErrIntegrityViolation
	}
	delete(r.byID, id)
	return nil
}

func (r *stubCustomerRepo) FindAll(_ context.Context) ([]*domain.Customer, error) {
	r.calls++
	out := make([]*domain.Customer, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, cloneCustomer(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubCustomerRepo) FindPage(ctx context.Context, req domain.PageRequest) (*domain.Page[*domain.Customer], error) {
	r.calls++
	r.lastPage = req
	if req.SortField != "name" && req.SortField != "id" {
		return nil, domain.ErrInvalidSortField
	}
	all, _ := r.FindAll(ctx)
	r.calls--
	sort.Slice(all, func(i, j int) bool {
		less := all[i].ID < all[j].ID
		if req.SortField == "name" {
			less = all[i].Name < all[j].Name
		}
		if req.Direction == domain.SortDesc {
			return !less
		}
		return less
	})
	start := int(req.Offset())
	if start > len(all) {
		start = len(all)
	}
	end := min(start+req.Size, len(all))
	return domain.NewPage(all[start:end], req, int64(len(all))), nil
}

type stubEncoder struct{}

func (stubEncoder) Encode(plain string) (string, error) { return "hashed:" + plain, nil }

func (stubEncoder) Matches(hash, plain string) bool { return hash == "hashed:"+plain }

type stubNormalizer struct {
	calls int
	err   error
}

func (n *stubNormalizer) Normalize(upload domain.UploadedImage) (*domain.NormalizedImage, error) {
	n.calls++
	if n.err != nil {
		return nil, n.err
	}
	return &domain.NormalizedImage{
		Data:        []byte("jpeg:" + string(upload.Data)),
		ContentType: "image/jpeg",
		Width:       200,
		Height:      200,
	}, nil
}

type stubStore struct {
	objects map[string][]byte
	types   map[string]string
}

func newStubStore() *stubStore {
	return &stubStore{objects: make(map[string][]byte), types: make(map[string]string)}
}

func (s *stubStore) Store(_ context.Context, key string, data []byte, contentType string) (string, error) {
	s.objects[key] = append([]byte(nil), data...)
	s.types[key] = contentType
	return "https://bucket.example/" + strings.TrimPrefix(key, "/"), nil
}
