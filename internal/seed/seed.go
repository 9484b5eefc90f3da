package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

// 外部API（FakeStoreAPI 互換）の商品
type ProductData struct {
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// FetchProducts は url から商品一覧(JSON配列)を取ってくる
func FetchProducts(ctx context.Context, client *http.Client, url string) ([]ProductData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch products: status %d", resp.StatusCode)
	}

	var items []ProductData
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return items, nil
}

// 同じtitleの商品があればスキップ。rating は 0/0 で入れる
func Products(ctx context.Context, products repo.ProductRepository, items []ProductData) (int, error) {
	existing, err := existingTitles(ctx, products)
	if err != nil {
		return 0, err
	}

	added := 0
	for _, it := range items {
		title := strings.TrimSpace(it.Title)
		if title == "" || existing[title] {
			continue
		}

		p := model.Product{
			Title:    title,
			Price:    it.Price.Round(2),
			Category: strings.TrimSpace(it.Category),
		}
		if p.Category == "" {
			p.Category = model.DefaultCategory
		}
		if it.Description != "" {
			d := it.Description
			p.Description = &d
		}
		if it.Image != "" {
			img := it.Image
			p.Image = &img
		}

		if _, err := products.Create(ctx, p); err != nil {
			return added, fmt.Errorf("create product %q: %w", title, err)
		}
		existing[title] = true
		added++
	}
	return added, nil
}

// 全商品を削除（order_items は残る）
func ClearProducts(ctx context.Context, products repo.ProductRepository) (int, error) {
	deleted := 0
	for {
		page, err := products.List(ctx, repo.ProductListQuery{Skip: 0, Limit: pageSize})
		if err != nil {
			return deleted, err
		}
		if len(page) == 0 {
			return deleted, nil
		}
		for _, p := range page {
			if err := products.Delete(ctx, p.ID); err != nil {
				return deleted, fmt.Errorf("delete product %d: %w", p.ID, err)
			}
			deleted++
		}
	}
}

// 管理者がいなければ作る。作ったら true
func Admin(ctx context.Context, users repo.UserRepository, hasher PasswordHasher, email string, password string) (bool, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return false, errors.New("admin email and password are required")
	}

	_, err := users.FindByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return false, err
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return false, err
	}
	name := "admin"
	err = users.Create(ctx, &model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         &name,
		Role:         model.RoleAdmin,
		IsActive:     true,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

const pageSize = 100

func existingTitles(ctx context.Context, products repo.ProductRepository) (map[string]bool, error) {
	titles := map[string]bool{}
	for skip := 0; ; skip += pageSize {
		page, err := products.List(ctx, repo.ProductListQuery{Skip: skip, Limit: pageSize})
		if err != nil {
			return nil, err
		}
		for _, p := range page {
			titles[p.Title] = true
		}
		if len(page) < pageSize {
			return titles, nil
		}
	}
}
