package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mkrasnov/asop-compliance-service/internal/core/domain"
	"github.com/mkrasnov/asop-compliance-service/internal/core/ports"
)

// AnalyzeMemoUseCase serves direct text analysis, bypassing storage.
type AnalyzeMemoUseCase struct {
	analyzer ports.ComplianceAnalyzer
}

func NewAnalyzeMemoUseCase(analyzer ports.ComplianceAnalyzer) *AnalyzeMemoUseCase {
	return &AnalyzeMemoUseCase{analyzer: analyzer}
}

func (uc *AnalyzeMemoUseCase) Analyze(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", domain.WrapError(domain.ErrInvalidInput, "analyze text", errors.New("text is required"))
	}

	analysis, err := uc.analyzer.AnalyzeText(ctx, text)
	if err != nil {
		return "", fmt.Errorf("analyze text: %w", err)
	}
	return analysis, nil
}
