package usecase

import (
	"context"
	"errors"
	"unicode/utf8"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

// ReviewUsecase はレビューの書き込みと商品評価の集計を行う。
// 集計は毎回その商品のレビュー全件から計算し直し、レビューの書き込みと同じtxで保存する。
type ReviewUsecase struct {
	tx          repo.TransactionManager
	productRepo repo.ProductRepository
	reviewRepo  repo.ReviewRepository
}

func NewReviewUsecase(tx repo.TransactionManager, productRepo repo.ProductRepository, reviewRepo repo.ReviewRepository) *ReviewUsecase {
	return &ReviewUsecase{
		tx:          tx,
		productRepo: productRepo,
		reviewRepo:  reviewRepo,
	}
}

type CreateReviewInput struct {
	ProductID int64
	Rating    int
	Comment   *string
}

// nil のフィールドは変更しない
type UpdateReviewInput struct {
	Rating  *int
	Comment *string
}

type ProductReviewsOutput struct {
	ProductID     int64          `json:"product_id"`
	Reviews       []model.Review `json:"reviews"`
	AverageRating float64        `json:"average_rating"`
	TotalReviews  int64          `json:"total_reviews"`
}

func (u *ReviewUsecase) Create(ctx context.Context, userID int64, in CreateReviewInput) (model.Review, error) {
	if userID <= 0 {
		return model.Review{}, Unauthorized("unauthorized")
	}

	var out model.Review
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Products().FindByID(ctx, in.ProductID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NotFound("product not found")
			}
			return dbError()
		}
		if err := validateRating(in.Rating); err != nil {
			return err
		}
		if err := validateComment(in.Comment); err != nil {
			return err
		}

		_, err := r.Reviews().FindByUserAndProduct(ctx, userID, in.ProductID)
		if err == nil {
			return Conflict("already reviewed, use update")
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return dbError()
		}

		out, err = r.Reviews().Create(ctx, model.Review{
			UserID:    userID,
			ProductID: in.ProductID,
			Rating:    in.Rating,
			Comment:   in.Comment,
		})
		if errors.Is(err, repo.ErrDuplicate) {
			return Conflict("already reviewed, use update")
		}
		if err != nil {
			return dbError()
		}

		return recomputeRating(ctx, r, in.ProductID)
	})
	if err != nil {
		return model.Review{}, err
	}
	return out, nil
}

// 本人のレビューだけ更新できる
func (u *ReviewUsecase) Update(ctx context.Context, userID int64, reviewID int64, in UpdateReviewInput) (model.Review, error) {
	if userID <= 0 {
		return model.Review{}, Unauthorized("unauthorized")
	}

	var out model.Review
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		rv, err := findOwnReview(ctx, r, userID, reviewID)
		if err != nil {
			return err
		}

		if in.Rating != nil {
			if err := validateRating(*in.Rating); err != nil {
				return err
			}
			rv.Rating = *in.Rating
		}
		if in.Comment != nil {
			if err := validateComment(in.Comment); err != nil {
				return err
			}
			rv.Comment = in.Comment
		}

		if err := r.Reviews().Update(ctx, rv); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NotFound("review not found")
			}
			return dbError()
		}
		if err := recomputeRating(ctx, r, rv.ProductID); err != nil {
			return err
		}

		out, err = r.Reviews().FindByID(ctx, reviewID)
		if err != nil {
			return dbError()
		}
		return nil
	})
	if err != nil {
		return model.Review{}, err
	}
	return out, nil
}

func (u *ReviewUsecase) Delete(ctx context.Context, userID int64, reviewID int64) error {
	if userID <= 0 {
		return Unauthorized("unauthorized")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		rv, err := findOwnReview(ctx, r, userID, reviewID)
		if err != nil {
			return err
		}

		if err := r.Reviews().Delete(ctx, reviewID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NotFound("review not found")
			}
			return dbError()
		}

		//最後の1件なら 0.0 / 0 に戻る
		return recomputeRating(ctx, r, rv.ProductID)
	})
}

// 平均と件数は返すレビューと同じ全件から計算する
func (u *ReviewUsecase) ListForProduct(ctx context.Context, productID int64) (ProductReviewsOutput, error) {
	if _, err := u.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ProductReviewsOutput{}, NotFound("product not found")
		}
		return ProductReviewsOutput{}, dbError()
	}

	reviews, err := u.reviewRepo.ListByProductID(ctx, productID)
	if err != nil {
		return ProductReviewsOutput{}, dbError()
	}

	ratings := make([]int, 0, len(reviews))
	for _, rv := range reviews {
		ratings = append(ratings, rv.Rating)
	}
	avg, count := computeRatingAggregate(ratings)

	return ProductReviewsOutput{
		ProductID:     productID,
		Reviews:       reviews,
		AverageRating: avg,
		TotalReviews:  count,
	}, nil
}

func (u *ReviewUsecase) ListMine(ctx context.Context, userID int64) ([]model.Review, error) {
	if userID <= 0 {
		return []model.Review{}, Unauthorized("unauthorized")
	}
	list, err := u.reviewRepo.ListByUserID(ctx, userID)
	if err != nil {
		return []model.Review{}, dbError()
	}
	return list, nil
}

func findOwnReview(ctx context.Context, r repo.TxRepos, userID int64, reviewID int64) (model.Review, error) {
	rv, err := r.Reviews().FindByID(ctx, reviewID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Review{}, NotFound("review not found")
	}
	if err != nil {
		return model.Review{}, dbError()
	}
	if rv.UserID != userID {
		return model.Review{}, Forbidden("not the author of this review")
	}
	return rv, nil
}

func recomputeRating(ctx context.Context, r repo.TxRepos, productID int64) error {
	ratings, err := r.Reviews().ListRatingsByProductID(ctx, productID)
	if err != nil {
		return dbError()
	}

	avg, count := computeRatingAggregate(ratings)
	if err := r.Products().UpdateRating(ctx, productID, avg, count); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NotFound("product not found")
		}
		return dbError()
	}
	return nil
}

// 平均は小数1桁に丸める（0.5は偶数側へ）。レビュー無しは 0.0 / 0
func computeRatingAggregate(ratings []int) (float64, int64) {
	if len(ratings) == 0 {
		return 0, 0
	}

	sum := int64(0)
	for _, v := range ratings {
		sum += int64(v)
	}
	count := int64(len(ratings))

	avg := decimal.NewFromInt(sum).
		DivRound(decimal.NewFromInt(count), 8).
		RoundBank(1)
	f, _ := avg.Float64()
	return f, count
}

func validateRating(rating int) error {
	if rating < model.MinRating || rating > model.MaxRating {
		return Validation("rating must be between 1 and 5")
	}
	return nil
}

func validateComment(comment *string) error {
	if comment != nil && utf8.RuneCountInString(*comment) > model.MaxReviewCommentLen {
		return Validation("comment must be at most 1000 characters")
	}
	return nil
}
