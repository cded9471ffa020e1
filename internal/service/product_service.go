package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/artmorais77/backend-orise/internal/apierror"
	"github.com/artmorais77/backend-orise/internal/dto"
	"github.com/artmorais77/backend-orise/internal/model"
	"github.com/artmorais77/backend-orise/internal/repository"
	"github.com/artmorais77/backend-orise/internal/scope"
)

type ProductService interface {
	Create(ctx context.Context, sc scope.Scope, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Update(ctx context.Context, sc scope.Scope, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Deactivate(ctx context.Context, sc scope.Scope, id uuid.UUID) error
	List(ctx context.Context, sc scope.Scope, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Get(ctx context.Context, sc scope.Scope, id uuid.UUID) (*dto.ProductResponse, error)
}

type productService struct {
	products  repository.ProductRepository
	sequences repository.SequenceRepository
}

func NewProductService(products repository.ProductRepository, sequences repository.SequenceRepository) ProductService {
	return &productService{products: products, sequences: sequences}
}

func (s *productService) Create(ctx context.Context, sc scope.Scope, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	existing, err := s.products.FindByName(ctx, sc.StoreID, req.Name)
	if err != nil {
		return nil, apierror.Internal(err.Error())
	}
	if existing != nil {
		return nil, apierror.Conflict("Já existe um produto com esse nome")
	}

	code, err := s.sequences.Next(ctx, sc.StoreID, model.EntityProduct)
	if err != nil {
		return nil, apierror.Internal(err.Error())
	}

	product := &model.Product{
		StoreID:  sc.StoreID,
		Code:     code,
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		IsActive: true,
	}
	if err := s.products.Create(ctx, product); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apierror.Conflict("Já existe um produto com esse nome")
		}
		return nil, apierror.Internal(err.Error())
	}
	return productToResponse(product), nil
}

func (s *productService) Update(ctx context.Context, sc scope.Scope, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil || product.StoreID != sc.StoreID {
		return nil, apierror.NotFound("Produto inexistente")
	}

	if req.Name != "" && req.Name != product.Name {
		dup, err := s.products.FindByName(ctx, sc.StoreID, req.Name)
		if err != nil {
			return nil, apierror.Internal(err.Error())
		}
		if dup != nil && dup.ID != product.ID {
			return nil, apierror.Conflict("Já existe um produto com esse nome")
		}
		product.Name = req.Name
	}
	if req.Category != "" {
		product.Category = req.Category
	}
	if req.Price != nil {
		if !req.Price.IsPositive() {
			return nil, apierror.Validation("O preço deve ser maior que 0")
		}
		product.Price = *req.Price
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, apierror.Internal(err.Error())
	}
	return productToResponse(product), nil
}

func (s *productService) Deactivate(ctx context.Context, sc scope.Scope, id uuid.UUID) error {
	product, err := s.products.FindByID(ctx, id)
	if err != nil || product.StoreID != sc.StoreID {
		return apierror.NotFound("Produto inexistente")
	}
	if err := s.products.Deactivate(ctx, id); err != nil {
		return apierror.Internal(err.Error())
	}
	return nil
}

func (s *productService) List(ctx context.Context, sc scope.Scope, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}
	products, total, err := s.products.List(ctx, sc.StoreID, filter)
	if err != nil {
		return nil, apierror.Internal(err.Error())
	}
	data := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		data = append(data, *productToResponse(&products[i]))
	}
	return &dto.ProductListResponse{
		Data: data,
		Meta: dto.NewPageMeta(total, filter.Page, filter.Limit),
	}, nil
}

func (s *productService) Get(ctx context.Context, sc scope.Scope, id uuid.UUID) (*dto.ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil || product.StoreID != sc.StoreID {
		return nil, apierror.NotFound("Produto inexistente")
	}
	return productToResponse(product), nil
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:       p.ID.String(),
		Code:     p.Code,
		Name:     p.Name,
		Category: p.Category,
		Price:    p.Price,
		IsActive: p.IsActive,
	}
}
