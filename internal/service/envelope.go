package service

import (
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/department-service/pkg/util"
)

// failure renders err as an envelope and logs it when it is a server fault.
func failure(logger *zap.Logger, op string, err error) *apperrors.Envelope {
	env := apperrors.FromError(err)
	if env.StatusCode >= 500 {
		logger.Error("operation failed", zap.String("op", op), zap.Error(err))
	}
	return env
}
