package service

import (
	"fmt"
	"time"

	"github.com/fsdevblog/groph-receipts/pkg/uow"
)

type AppServices struct {
	UserService    *UserService
	ReceiptService *ReceiptService
}

type FactoryArgs struct {
	UOW       uow.UOW
	Hasher    PasswordHasher
	JWTSecret []byte
	TokenTTL  time.Duration
	Metrics   ReceiptMetrics
}

func Factory(args FactoryArgs) (*AppServices, error) {
	userService, userServiceErr := NewUserService(args.UOW, args.JWTSecret, args.TokenTTL, args.Hasher)
	if userServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", userServiceErr.Error())
	}

	receiptService, receiptServiceErr := NewReceiptService(args.UOW, args.Metrics)
	if receiptServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", receiptServiceErr.Error())
	}

	return &AppServices{
		UserService:    userService,
		ReceiptService: receiptService,
	}, nil
}
