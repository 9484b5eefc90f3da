package repository

import "errors"

var (
	// 対象が存在しない
	ErrNotFound = errors.New("not found")
	// 一意制約違反（email / (user,product) の重複など）
	ErrDuplicate = errors.New("duplicate")
	// 数量は1以上
	ErrInvalidQuantity = errors.New("invalid quantity")
)
