package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	defaultProductLimit = 100
	maxProductLimit     = 100

	maxTitleLen    = 200
	maxCategoryLen = 100
	maxImageLen    = 500
)

// numeric(10,2) の上限
var maxPrice = decimal.New(1, 8)

type ProductUsecase struct {
	productRepo repo.ProductRepository
	tx          repo.TransactionManager
}

// DI
func NewProductUsecase(productRepo repo.ProductRepository, tx repo.TransactionManager) *ProductUsecase {
	return &ProductUsecase{
		productRepo: productRepo,
		tx:          tx,
	}
}

// GET /products の入力
type ListProductsInput struct {
	Skip     int
	Limit    int
	Category string
}

func (u *ProductUsecase) ListProducts(ctx context.Context, in ListProductsInput) ([]model.Product, error) {
	if in.Skip < 0 {
		return []model.Product{}, Validation("skip must be >= 0")
	}
	if in.Limit == 0 {
		in.Limit = defaultProductLimit
	}
	if in.Limit < 1 || in.Limit > maxProductLimit {
		return []model.Product{}, Validation("limit must be between 1 and 100")
	}

	items, err := u.productRepo.List(ctx, repo.ProductListQuery{
		Skip:     in.Skip,
		Limit:    in.Limit,
		Category: strings.TrimSpace(in.Category),
	})
	if err != nil {
		return []model.Product{}, dbError()
	}
	return items, nil
}

func (u *ProductUsecase) ListCategories(ctx context.Context) ([]string, error) {
	cats, err := u.productRepo.ListCategories(ctx)
	if err != nil {
		return []string{}, dbError()
	}
	return cats, nil
}

func (u *ProductUsecase) GetProduct(ctx context.Context, productID int64) (model.Product, error) {
	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NotFound("product not found")
	}
	if err != nil {
		return model.Product{}, dbError()
	}
	return p, nil
}

type CreateProductInput struct {
	Title       string
	Price       decimal.Decimal
	Description *string
	Category    *string
	Image       *string
}

// rating系は0/0から始まる（呼び出し側からは書けない）
func (u *ProductUsecase) CreateProduct(ctx context.Context, adminUserID int64, in CreateProductInput) (model.Product, error) {
	if adminUserID <= 0 {
		return model.Product{}, Unauthorized("unauthorized")
	}

	p := model.Product{
		Title:       strings.TrimSpace(in.Title),
		Price:       in.Price,
		Description: in.Description,
		Category:    model.DefaultCategory,
		Image:       in.Image,
	}
	if in.Category != nil && strings.TrimSpace(*in.Category) != "" {
		p.Category = strings.TrimSpace(*in.Category)
	}
	if err := validateProduct(p); err != nil {
		return model.Product{}, err
	}

	created, err := u.productRepo.Create(ctx, p)
	if err != nil {
		return model.Product{}, dbError()
	}
	return created, nil
}

// nil のフィールドは変更しない
type UpdateProductInput struct {
	Title       *string
	Price       *decimal.Decimal
	Description *string
	Category    *string
	Image       *string
}

func (u *ProductUsecase) UpdateProduct(ctx context.Context, adminUserID int64, productID int64, in UpdateProductInput) (model.Product, error) {
	if adminUserID <= 0 {
		return model.Product{}, Unauthorized("unauthorized")
	}

	var out model.Product
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		before, err := r.Products().FindByID(ctx, productID)
		if errors.Is(err, repo.ErrNotFound) {
			return NotFound("product not found")
		}
		if err != nil {
			return dbError()
		}

		after := before
		if in.Title != nil {
			after.Title = strings.TrimSpace(*in.Title)
		}
		if in.Price != nil {
			after.Price = *in.Price
		}
		if in.Description != nil {
			after.Description = in.Description
		}
		if in.Category != nil {
			after.Category = strings.TrimSpace(*in.Category)
		}
		if in.Image != nil {
			after.Image = in.Image
		}
		if err := validateProduct(after); err != nil {
			return err
		}

		if err := r.Products().Update(ctx, after); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NotFound("product not found")
			}
			return dbError()
		}

		//監査ログ（UPDATE_PRODUCT）
		if err := writeAudit(ctx, r, adminUserID, model.AuditActionUpdateProduct, model.AuditResourceProduct, productID,
			productSnapshot(before), productSnapshot(after)); err != nil {
			return err
		}

		out, err = r.Products().FindByID(ctx, productID)
		if err != nil {
			return dbError()
		}
		return nil
	})
	if err != nil {
		return model.Product{}, err
	}
	return out, nil
}

// wishlist / reviews / cart は一緒に消える。注文明細は残る
func (u *ProductUsecase) DeleteProduct(ctx context.Context, adminUserID int64, productID int64) error {
	if adminUserID <= 0 {
		return Unauthorized("unauthorized")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		before, err := r.Products().FindByID(ctx, productID)
		if errors.Is(err, repo.ErrNotFound) {
			return NotFound("product not found")
		}
		if err != nil {
			return dbError()
		}

		if err := r.Products().Delete(ctx, productID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NotFound("product not found")
			}
			return dbError()
		}

		return writeAudit(ctx, r, adminUserID, model.AuditActionDeleteProduct, model.AuditResourceProduct, productID,
			productSnapshot(before), nil)
	})
}

func validateProduct(p model.Product) error {
	n := utf8.RuneCountInString(p.Title)
	if n == 0 {
		return Validation("title required")
	}
	if n > maxTitleLen {
		return Validation("title too long")
	}
	if p.Price.IsNegative() {
		return Validation("price must be >= 0")
	}
	if !p.Price.Equal(p.Price.Round(2)) {
		return Validation("price must have at most 2 decimal places")
	}
	if p.Price.GreaterThanOrEqual(maxPrice) {
		return Validation("price too large")
	}
	if p.Category == "" {
		return Validation("category required")
	}
	if utf8.RuneCountInString(p.Category) > maxCategoryLen {
		return Validation("category too long")
	}
	if p.Image != nil && utf8.RuneCountInString(*p.Image) > maxImageLen {
		return Validation("image too long")
	}
	return nil
}

// 監査ログに残す商品の中身
type productAudit struct {
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description *string         `json:"description"`
	Category    string          `json:"category"`
	Image       *string         `json:"image"`
}

func productSnapshot(p model.Product) any {
	return productAudit{
		Title:       p.Title,
		Price:       p.Price,
		Description: p.Description,
		Category:    p.Category,
		Image:       p.Image,
	}
}

// before/after は JSON 文字列で保存（nil は空文字）
func writeAudit(
	ctx context.Context,
	r repo.TxRepos,
	actorUserID int64,
	action model.AuditAction,
	resourceType model.AuditResourceType,
	resourceID int64,
	before any,
	after any,
) error {
	beforeJSON, err := auditJSON(before)
	if err != nil {
		return internalError("audit encode error")
	}
	afterJSON, err := auditJSON(after)
	if err != nil {
		return internalError("audit encode error")
	}

	if err := r.AuditLogs().Create(ctx, model.AuditLog{
		ActorUserID:  actorUserID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		BeforeJSON:   beforeJSON,
		AfterJSON:    afterJSON,
		CreatedAt:    time.Now(),
	}); err != nil {
		return dbError()
	}
	return nil
}

func auditJSON(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
