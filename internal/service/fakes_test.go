package service

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/artmorais77/backend-orise/internal/dto"
	"github.com/artmorais77/backend-orise/internal/model"
	"github.com/artmorais77/backend-orise/internal/repository"
)

// memStore is the shared in-memory backing for all fake repositories, so a
// single test can observe registers, movements and sales together the way
// the real schema does.
type memStore struct {
	sequences map[string]int
	registers map[uuid.UUID]*model.CashRegister
	movements []model.CashMovement
	sales     map[uuid.UUID]*model.Sale
	saleItems []model.SaleItem
	products  map[uuid.UUID]*model.Product
	users     map[uuid.UUID]*model.User
	stores    map[uuid.UUID]*model.Store
}

func newMemStore() *memStore {
	return &memStore{
		sequences: make(map[string]int),
		registers: make(map[uuid.UUID]*model.CashRegister),
		sales:     make(map[uuid.UUID]*model.Sale),
		products:  make(map[uuid.UUID]*model.Product),
		users:     make(map[uuid.UUID]*model.User),
		stores:    make(map[uuid.UUID]*model.Store),
	}
}

// ── Sequences ─────────────────────────────────────────────────────────────────

type fakeSequenceRepo struct{ mem *memStore }

func (r *fakeSequenceRepo) Next(_ context.Context, storeID uuid.UUID, entity string) (int, error) {
	key := storeID.String() + "/" + entity
	r.mem.sequences[key]++
	return r.mem.sequences[key], nil
}

var _ repository.SequenceRepository = (*fakeSequenceRepo)(nil)

// ── Cash registers ────────────────────────────────────────────────────────────

type fakeRegisterRepo struct{ mem *memStore }

func (r *fakeRegisterRepo) DB() *gorm.DB { return nil }

func (r *fakeRegisterRepo) CreateTx(_ *gorm.DB, reg *model.CashRegister) error {
	// Mirrors the partial unique index on (store_id) WHERE is_open.
	for _, existing := range r.mem.registers {
		if existing.StoreID == reg.StoreID && existing.IsOpen {
			return gorm.ErrDuplicatedKey
		}
	}
	if reg.ID == uuid.Nil {
		reg.ID = uuid.New()
	}
	r.mem.registers[reg.ID] = reg
	return nil
}

func (r *fakeRegisterRepo) FindByID(_ context.Context, id uuid.UUID) (*model.CashRegister, error) {
	reg, ok := r.mem.registers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *reg
	out.CashMovements = r.movementsFor(id)
	return &out, nil
}

func (r *fakeRegisterRepo) FindOpenByStore(_ context.Context, storeID uuid.UUID) (*model.CashRegister, error) {
	for _, reg := range r.mem.registers {
		if reg.StoreID == storeID && reg.IsOpen {
			out := *reg
			out.CashMovements = r.movementsFor(reg.ID)
			return &out, nil
		}
	}
	return nil, nil
}

func (r *fakeRegisterRepo) CloseTx(_ *gorm.DB, reg *model.CashRegister) error {
	stored, ok := r.mem.registers[reg.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.IsOpen = false
	stored.FinalAmount = reg.FinalAmount
	stored.ClosedByID = reg.ClosedByID
	stored.ClosedAt = reg.ClosedAt
	return nil
}

func (r *fakeRegisterRepo) List(_ context.Context, storeID uuid.UUID, filter dto.RegisterFilter) ([]model.CashRegister, int64, error) {
	var all []model.CashRegister
	for _, reg := range r.mem.registers {
		if reg.StoreID != storeID {
			continue
		}
		if filter.Code > 0 && reg.Code != filter.Code {
			continue
		}
		all = append(all, *reg)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Code > all[j].Code })
	total := int64(len(all))
	start := (filter.Page - 1) * filter.Limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + filter.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *fakeRegisterRepo) movementsFor(registerID uuid.UUID) []model.CashMovement {
	var movs []model.CashMovement
	for _, m := range r.mem.movements {
		if m.CashRegisterID == registerID {
			movs = append(movs, m)
		}
	}
	sort.Slice(movs, func(i, j int) bool { return movs[i].Code < movs[j].Code })
	return movs
}

var _ repository.RegisterRepository = (*fakeRegisterRepo)(nil)

// ── Cash movements ────────────────────────────────────────────────────────────

type fakeMovementRepo struct{ mem *memStore }

func (r *fakeMovementRepo) Create(_ context.Context, m *model.CashMovement) error {
	return r.store(m)
}

func (r *fakeMovementRepo) CreateTx(_ *gorm.DB, m *model.CashMovement) error {
	return r.store(m)
}

func (r *fakeMovementRepo) store(m *model.CashMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.mem.movements = append(r.mem.movements, *m)
	return nil
}

func (r *fakeMovementRepo) ListByRegister(_ context.Context, registerID uuid.UUID) ([]model.CashMovement, error) {
	var movs []model.CashMovement
	for _, m := range r.mem.movements {
		if m.CashRegisterID == registerID {
			movs = append(movs, m)
		}
	}
	return movs, nil
}

func (r *fakeMovementRepo) ListByRegisterAndType(_ context.Context, registerID uuid.UUID, movType string) ([]model.CashMovement, error) {
	var movs []model.CashMovement
	for _, m := range r.mem.movements {
		if m.CashRegisterID == registerID && m.Type == movType {
			movs = append(movs, m)
		}
	}
	return movs, nil
}

func (r *fakeMovementRepo) SumByTypeTx(_ *gorm.DB, registerID uuid.UUID, movType string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, m := range r.mem.movements {
		if m.CashRegisterID == registerID && m.Type == movType && !m.Superseded {
			sum = sum.Add(m.Amount)
		}
	}
	return sum, nil
}

func (r *fakeMovementRepo) FindLiveBySaleTx(_ *gorm.DB, saleID uuid.UUID) (*model.CashMovement, error) {
	for i := range r.mem.movements {
		m := &r.mem.movements[i]
		if m.SaleID != nil && *m.SaleID == saleID && m.Type == model.MovementIn && !m.Superseded {
			out := *m
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeMovementRepo) SupersedeTx(_ *gorm.DB, movementID uuid.UUID) error {
	for i := range r.mem.movements {
		if r.mem.movements[i].ID == movementID {
			r.mem.movements[i].Superseded = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

var _ repository.MovementRepository = (*fakeMovementRepo)(nil)

// ── Sales ─────────────────────────────────────────────────────────────────────

type fakeSaleRepo struct{ mem *memStore }

func (r *fakeSaleRepo) DB() *gorm.DB { return nil }

func (r *fakeSaleRepo) CreateTx(_ *gorm.DB, s *model.Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	for i := range s.SaleItems {
		if s.SaleItems[i].ID == uuid.Nil {
			s.SaleItems[i].ID = uuid.New()
		}
		s.SaleItems[i].SaleID = s.ID
		r.mem.saleItems = append(r.mem.saleItems, s.SaleItems[i])
	}
	stored := *s
	stored.SaleItems = nil
	r.mem.sales[s.ID] = &stored
	return nil
}

func (r *fakeSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.mem.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *s
	for _, item := range r.mem.saleItems {
		if item.SaleID == id {
			out.SaleItems = append(out.SaleItems, item)
		}
	}
	return &out, nil
}

func (r *fakeSaleRepo) DeleteItemsTx(_ *gorm.DB, saleID uuid.UUID) error {
	kept := r.mem.saleItems[:0]
	for _, item := range r.mem.saleItems {
		if item.SaleID != saleID {
			kept = append(kept, item)
		}
	}
	r.mem.saleItems = kept
	return nil
}

func (r *fakeSaleRepo) CreateItemsTx(_ *gorm.DB, items []model.SaleItem) error {
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		r.mem.saleItems = append(r.mem.saleItems, items[i])
	}
	return nil
}

func (r *fakeSaleRepo) UpdateTotalsTx(_ *gorm.DB, id uuid.UUID, total decimal.Decimal, paymentType string) error {
	s, ok := r.mem.sales[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Total = total
	s.PaymentType = paymentType
	return nil
}

func (r *fakeSaleRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, status string) error {
	s, ok := r.mem.sales[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Status = status
	return nil
}

func (r *fakeSaleRepo) List(_ context.Context, storeID uuid.UUID, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var all []model.Sale
	for _, s := range r.mem.sales {
		if s.StoreID != storeID {
			continue
		}
		if filter.Status != "" && filter.Status != "all" && s.Status != filter.Status {
			continue
		}
		if filter.Code > 0 && s.Code != filter.Code {
			continue
		}
		all = append(all, *s)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Code > all[j].Code })
	total := int64(len(all))
	start := (filter.Page - 1) * filter.Limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + filter.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

var _ repository.SaleRepository = (*fakeSaleRepo)(nil)

// ── Products ──────────────────────────────────────────────────────────────────

type fakeProductRepo struct{ mem *memStore }

func (r *fakeProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.mem.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.mem.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *p
	return &out, nil
}

func (r *fakeProductRepo) FindByName(_ context.Context, storeID uuid.UUID, name string) (*model.Product, error) {
	for _, p := range r.mem.products {
		if p.StoreID == storeID && strings.EqualFold(p.Name, name) {
			out := *p
			return &out, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) List(_ context.Context, storeID uuid.UUID, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var all []model.Product
	for _, p := range r.mem.products {
		if p.StoreID != storeID {
			continue
		}
		if filter.Name != "" && !strings.EqualFold(p.Name, filter.Name) {
			continue
		}
		if filter.Category != "" && !strings.EqualFold(p.Category, filter.Category) {
			continue
		}
		all = append(all, *p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Code > all[j].Code })
	total := int64(len(all))
	start := (filter.Page - 1) * filter.Limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + filter.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *model.Product) error {
	if _, ok := r.mem.products[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *p
	r.mem.products[p.ID] = &stored
	return nil
}

func (r *fakeProductRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	p, ok := r.mem.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.IsActive = false
	return nil
}

var _ repository.ProductRepository = (*fakeProductRepo)(nil)

// ── Users ─────────────────────────────────────────────────────────────────────

type fakeUserRepo struct{ mem *memStore }

func (r *fakeUserRepo) DB() *gorm.DB { return nil }

func (r *fakeUserRepo) CreateStoreTx(_ *gorm.DB, s *model.Store) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.mem.stores[s.ID] = s
	return nil
}

func (r *fakeUserRepo) CreateTx(_ *gorm.DB, u *model.User) error {
	for _, existing := range r.mem.users {
		if existing.Email == u.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.mem.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.mem.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.mem.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *u
	return &out, nil
}

func (r *fakeUserRepo) FindStoreByID(_ context.Context, id uuid.UUID) (*model.Store, error) {
	s, ok := r.mem.stores[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *s
	return &out, nil
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)
