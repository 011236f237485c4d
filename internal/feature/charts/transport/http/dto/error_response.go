// Package dto はchartsフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import (
	"errors"
	"net/http"

	"stock_charts/internal/feature/charts/domain"
)

// エラーコード。クライアントが機械的に分類できるよう安定した文字列で返します。
const (
	CodeValidationError  = "validation_error"
	CodeSymbolNotFound   = "symbol_not_found"
	CodeInsufficientData = "insufficient_data"
	CodeComputationError = "computation_error"
)

// ErrorResponse は構造化されたエラーレスポンスです。
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`

	// symbol_not_foundの場合のみ設定されます。
	Invalid   []string `json:"invalid_symbols,omitempty"`
	Available []string `json:"available_symbols,omitempty"`
}

// FromError はドメインエラーをHTTPステータスとレスポンスボディへ写します。
// 生のスタックトレースや内部エラーの詳細は公開しません。
func FromError(err error) (int, ErrorResponse) {
	var nf *domain.SymbolNotFoundError
	if errors.As(err, &nf) {
		return http.StatusNotFound, ErrorResponse{
			Code:      CodeSymbolNotFound,
			Message:   "none of the requested symbols are available",
			Invalid:   nf.Invalid,
			Available: nf.Available,
		}
	}

	var ins *domain.InsufficientDataError
	if errors.As(err, &ins) {
		return http.StatusBadRequest, ErrorResponse{
			Code:    CodeInsufficientData,
			Message: ins.Error(),
		}
	}

	var ce *domain.ComputationError
	if errors.As(err, &ce) {
		return http.StatusInternalServerError, ErrorResponse{
			Code:    CodeComputationError,
			Message: "chart generation failed",
		}
	}

	switch {
	case errors.Is(err, domain.ErrMissingSymbols),
		errors.Is(err, domain.ErrUnknownChartType),
		errors.Is(err, domain.ErrSingleSymbolOnly),
		errors.Is(err, domain.ErrNoAdjClose):
		return http.StatusBadRequest, ErrorResponse{
			Code:    CodeValidationError,
			Message: err.Error(),
		}
	}

	return http.StatusInternalServerError, ErrorResponse{
		Code:    CodeComputationError,
		Message: "internal error",
	}
}
