package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gamerstore/backend/internal/domain"
)

// memStores is an in-memory domain.Stores used by the service tests.
// ExecTx snapshots the state before running fn and restores it when fn
// fails, mirroring the all-or-nothing behavior of a real transaction.
type memStores struct {
	users      map[uuid.UUID]domain.User
	products   map[uuid.UUID]domain.Product
	categories map[uuid.UUID]domain.Category
	carts      map[uuid.UUID]domain.Cart // keyed by cart id
	cartItems  map[uuid.UUID][]domain.CartItem
	orders     map[uuid.UUID]domain.Order
}

func newMemStores() *memStores {
	return &memStores{
		users:      make(map[uuid.UUID]domain.User),
		products:   make(map[uuid.UUID]domain.Product),
		categories: make(map[uuid.UUID]domain.Category),
		carts:      make(map[uuid.UUID]domain.Cart),
		cartItems:  make(map[uuid.UUID][]domain.CartItem),
		orders:     make(map[uuid.UUID]domain.Order),
	}
}

func (m *memStores) snapshot() *memStores {
	c := newMemStores()
	for k, v := range m.users {
		c.users[k] = v
	}
	for k, v := range m.products {
		c.products[k] = v
	}
	for k, v := range m.categories {
		c.categories[k] = v
	}
	for k, v := range m.carts {
		c.carts[k] = v
	}
	for k, v := range m.cartItems {
		items := make([]domain.CartItem, len(v))
		copy(items, v)
		c.cartItems[k] = items
	}
	for k, v := range m.orders {
		o := v
		o.Items = append([]domain.OrderItem(nil), v.Items...)
		c.orders[k] = o
	}
	return c
}

func (m *memStores) restore(from *memStores) {
	m.users = from.users
	m.products = from.products
	m.categories = from.categories
	m.carts = from.carts
	m.cartItems = from.cartItems
	m.orders = from.orders
}

func (m *memStores) Users() domain.UserStore { return &memUserStore{m} }

func (m *memStores) Products() domain.ProductStore { return &memProductStore{m} }

func (m *memStores) Categories() domain.CategoryStore { return &memCategoryStore{m} }

func (m *memStores) Carts() domain.CartStore { return &memCartStore{m} }

func (m *memStores) Orders() domain.OrderStore { return &memOrderStore{m} }

func (m *memStores) ExecTx(ctx context.Context, fn func(domain.Stores) error) error {
	saved := m.snapshot()
	if err := fn(m); err != nil {
		m.restore(saved)
		return err
	}
	return nil
}

var _ domain.Stores = (*memStores)(nil)

// test seeding helpers

func (m *memStores) addProduct(name string, price string, stock int32) domain.Product {
	p := domain.Product{
		ID:        uuid.New(),
		Name:      name,
		Price:     mustDecimal(price),
		Stock:     stock,
		Active:    true,
		CreatedAt: time.Now(),
	}
	m.products[p.ID] = p
	return p
}

func (m *memStores) addUser(username string, role domain.Role) domain.User {
	u := domain.User{
		ID:       uuid.New(),
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
		Provider: domain.ProviderLocal,
	}
	m.users[u.ID] = u
	return u
}

func (m *memStores) addCartWithItems(userID uuid.UUID, items ...domain.CartItem) domain.Cart {
	cart := domain.Cart{ID: uuid.New(), UserID: userID}
	m.carts[cart.ID] = cart
	for i := range items {
		items[i].ID = uuid.New()
		items[i].CartID = cart.ID
	}
	m.cartItems[cart.ID] = items
	return cart
}

// memUserStore

type memUserStore struct{ m *memStores }

func (s *memUserStore) Create(ctx context.Context, user *domain.User) error {
	for _, u := range s.m.users {
		if u.Username == user.Username || u.Email == user.Email {
			return domain.ErrDuplicateUser
		}
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	s.m.users[user.ID] = *user
	return nil
}

func (s *memUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := s.m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (s *memUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range s.m.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *memUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range s.m.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// memProductStore

type memProductStore struct{ m *memStores }

func (s *memProductStore) Create(ctx context.Context, product *domain.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	product.CreatedAt = time.Now()
	s.m.products[product.ID] = *product
	return nil
}

func (s *memProductStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	p, ok := s.m.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &p, nil
}

func (s *memProductStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.GetByID(ctx, id)
}

func (s *memProductStore) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range s.m.products {
		if filter.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Name)) {
			continue
		}
		if filter.CategoryID != nil && (!p.CategoryID.Valid || p.CategoryID.UUID != *filter.CategoryID) {
			continue
		}
		if filter.InStock != nil && *filter.InStock && p.Stock < 1 {
			continue
		}
		if filter.Active != nil && p.Active != *filter.Active {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memProductStore) Update(ctx context.Context, product *domain.Product) error {
	if _, ok := s.m.products[product.ID]; !ok {
		return domain.ErrProductNotFound
	}
	s.m.products[product.ID] = *product
	return nil
}

func (s *memProductStore) AdjustStock(ctx context.Context, id uuid.UUID, delta int32) error {
	p, ok := s.m.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	if p.Stock+delta < 0 {
		return domain.ErrInsufficientStock
	}
	p.Stock += delta
	s.m.products[id] = p
	return nil
}

func (s *memProductStore) Delete(ctx context.Context, id uuid.UUID) error {
	for _, items := range s.m.cartItems {
		for _, item := range items {
			if item.ProductID == id {
				return domain.ErrProductInUse
			}
		}
	}
	for _, order := range s.m.orders {
		for _, item := range order.Items {
			if item.ProductID == id {
				return domain.ErrProductInUse
			}
		}
	}
	if _, ok := s.m.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(s.m.products, id)
	return nil
}

// memCategoryStore

type memCategoryStore struct{ m *memStores }

func (s *memCategoryStore) Create(ctx context.Context, category *domain.Category) error {
	for _, c := range s.m.categories {
		if c.Name == category.Name {
			return domain.Conflict("category.create", "category already exists")
		}
	}
	s.m.categories[category.ID] = *category
	return nil
}

func (s *memCategoryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	c, ok := s.m.categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	return &c, nil
}

func (s *memCategoryStore) List(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	for _, c := range s.m.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memCategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	for _, p := range s.m.products {
		if p.CategoryID.Valid && p.CategoryID.UUID == id {
			return domain.ErrCategoryInUse
		}
	}
	if _, ok := s.m.categories[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	delete(s.m.categories, id)
	return nil
}

// memCartStore

type memCartStore struct{ m *memStores }

func (s *memCartStore) GetOrCreate(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	for _, c := range s.m.carts {
		if c.UserID == userID {
			c := c
			return &c, nil
		}
	}
	cart := domain.Cart{ID: uuid.New(), UserID: userID}
	s.m.carts[cart.ID] = cart
	return &cart, nil
}

func (s *memCartStore) GetByUser(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	for _, c := range s.m.carts {
		if c.UserID == userID {
			c := c
			return &c, nil
		}
	}
	return nil, domain.ErrCartNotFound
}

func (s *memCartStore) GetItems(ctx context.Context, cartID uuid.UUID) ([]domain.CartItem, error) {
	items := make([]domain.CartItem, len(s.m.cartItems[cartID]))
	copy(items, s.m.cartItems[cartID])
	return items, nil
}

func (s *memCartStore) GetItem(ctx context.Context, cartID, productID uuid.UUID) (*domain.CartItem, error) {
	for _, item := range s.m.cartItems[cartID] {
		if item.ProductID == productID {
			item := item
			return &item, nil
		}
	}
	return nil, domain.ErrCartItemNotFound
}

func (s *memCartStore) UpsertItem(ctx context.Context, cartID, productID uuid.UUID, quantity int32) error {
	items := s.m.cartItems[cartID]
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity += quantity
			return nil
		}
	}
	s.m.cartItems[cartID] = append(items, domain.CartItem{
		ID:        uuid.New(),
		CartID:    cartID,
		ProductID: productID,
		Quantity:  quantity,
	})
	return nil
}

func (s *memCartStore) SetItemQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int32) error {
	items := s.m.cartItems[cartID]
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity = quantity
			return nil
		}
	}
	return domain.ErrCartItemNotFound
}

func (s *memCartStore) RemoveItem(ctx context.Context, cartID, productID uuid.UUID) error {
	items := s.m.cartItems[cartID]
	for i := range items {
		if items[i].ProductID == productID {
			s.m.cartItems[cartID] = append(items[:i:i], items[i+1:]...)
			return nil
		}
	}
	return domain.ErrCartItemNotFound
}

func (s *memCartStore) Clear(ctx context.Context, cartID uuid.UUID) error {
	s.m.cartItems[cartID] = nil
	return nil
}

func (s *memCartStore) GetSummary(ctx context.Context, cartID uuid.UUID) (*domain.CartSummary, error) {
	cart, ok := s.m.carts[cartID]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	summary := &domain.CartSummary{ID: cart.ID, UserID: cart.UserID}
	for _, item := range s.m.cartItems[cartID] {
		p := s.m.products[item.ProductID]
		summary.Items = append(summary.Items, domain.CartLine{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: p.Name,
			UnitPrice:   p.Price,
			Stock:       p.Stock,
			Quantity:    item.Quantity,
			ImageURL:    p.ImageURL,
		})
	}
	return summary, nil
}

// memOrderStore

type memOrderStore struct{ m *memStores }

func (s *memOrderStore) Create(ctx context.Context, order *domain.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	order.CreatedAt = time.Now()
	for i := range order.Items {
		if order.Items[i].ID == uuid.Nil {
			order.Items[i].ID = uuid.New()
		}
		order.Items[i].OrderID = order.ID
	}
	saved := *order
	saved.Items = append([]domain.OrderItem(nil), order.Items...)
	s.m.orders[order.ID] = saved
	return nil
}

func (s *memOrderStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	o, ok := s.m.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	o.Items = append([]domain.OrderItem(nil), o.Items...)
	return &o, nil
}

func (s *memOrderStore) ListAll(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range s.m.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memOrderStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range s.m.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memOrderStore) SetStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	o, ok := s.m.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.Status = status
	s.m.orders[id] = o
	return nil
}

func (s *memOrderStore) SetStatusIf(ctx context.Context, id uuid.UUID, expected, status domain.OrderStatus) (bool, error) {
	o, ok := s.m.orders[id]
	if !ok || o.Status != expected {
		return false, nil
	}
	o.Status = status
	s.m.orders[id] = o
	return true, nil
}
