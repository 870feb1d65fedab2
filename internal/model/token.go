package model

import (
	"context"
	"time"

	"gorm.io/gorm"
)

const (
	TokenStatusPending   = "pending"
	TokenStatusConfirmed = "confirmed"
	TokenStatusFailed    = "failed"
)

// Token 通过发射流程创建的代币记录
type Token struct {
	ID              uint   `gorm:"primarykey"`
	GUID            string `gorm:"uniqueIndex;size:36"`
	Name            string
	Symbol          string
	Decimals        uint8
	Description     string
	ImageUrl        string
	Creator         string `gorm:"index"`
	ContractAddress string `gorm:"index"`
	DeployTxHash    string `gorm:"index"`
	Status          string `gorm:"index"`
	FailReason      string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type TokenModel struct {
	db *gorm.DB
}

func NewTokenModel(db *gorm.DB) *TokenModel {
	return &TokenModel{db: db}
}

func (model *TokenModel) Save(ctx context.Context, args Token) (*Token, error) {
	err := model.db.WithContext(ctx).Create(&args).Error
	if err != nil {
		return nil, err
	}
	return &args, nil
}

func (model *TokenModel) FindByGUID(ctx context.Context, guid string) (*Token, error) {
	var token Token
	err := model.db.WithContext(ctx).Where("guid = ?", guid).First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (model *TokenModel) FindByContractAddress(ctx context.Context, contractAddress string) (*Token, error) {
	var token Token
	err := model.db.WithContext(ctx).Where("contract_address = ?", contractAddress).First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (model *TokenModel) FindAll(ctx context.Context, offset, limit int) ([]*Token, error) {
	var tokens []*Token
	err := model.db.WithContext(ctx).
		Order("id desc").
		Offset(offset).
		Limit(limit).
		Find(&tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

func (model *TokenModel) FindPending(ctx context.Context, limit int) ([]*Token, error) {
	var tokens []*Token
	err := model.db.WithContext(ctx).
		Where("status = ?", TokenStatusPending).
		Order("id asc").
		Limit(limit).
		Find(&tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

func (model *TokenModel) SetConfirmedStatus(ctx context.Context, id uint, contractAddress string) error {
	return model.db.WithContext(ctx).
		Model(&Token{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":           TokenStatusConfirmed,
			"contract_address": contractAddress,
		}).Error
}

func (model *TokenModel) SetFailedStatus(ctx context.Context, id uint, reason string) error {
	return model.db.WithContext(ctx).
		Model(&Token{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":      TokenStatusFailed,
			"fail_reason": reason,
		}).Error
}
