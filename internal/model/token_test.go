package model

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestModel(t *testing.T) *TokenModel {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Token{}))

	return NewTokenModel(db)
}

func newPendingToken(t *testing.T, model *TokenModel, symbol, txHash string) *Token {
	t.Helper()

	token, err := model.Save(context.Background(), Token{
		GUID:         uuid.NewString(),
		Name:         symbol + " Coin",
		Symbol:       symbol,
		Decimals:     18,
		Creator:      "0x0123456789abcdef",
		DeployTxHash: txHash,
		Status:       TokenStatusPending,
	})
	require.NoError(t, err)
	return token
}

func TestTokenModelSaveAndFind(t *testing.T) {
	model := newTestModel(t)
	token := newPendingToken(t, model, "MEME", "0xaaa")

	found, err := model.FindByGUID(context.Background(), token.GUID)
	require.NoError(t, err)
	require.Equal(t, token.ID, found.ID)
	require.Equal(t, "MEME", found.Symbol)
	require.Equal(t, TokenStatusPending, found.Status)

	_, err = model.FindByGUID(context.Background(), "missing")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestTokenModelFindPending(t *testing.T) {
	model := newTestModel(t)
	first := newPendingToken(t, model, "AAA", "0xaaa")
	newPendingToken(t, model, "BBB", "0xbbb")

	require.NoError(t, model.SetConfirmedStatus(context.Background(), first.ID, "0xcontract"))

	pending, err := model.FindPending(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, "BBB", pending[0].Symbol)
}

func TestTokenModelSetConfirmedStatus(t *testing.T) {
	model := newTestModel(t)
	token := newPendingToken(t, model, "MEME", "0xaaa")

	require.NoError(t, model.SetConfirmedStatus(context.Background(), token.ID, "0xcontract"))

	found, err := model.FindByContractAddress(context.Background(), "0xcontract")
	require.NoError(t, err)
	require.Equal(t, token.ID, found.ID)
	require.Equal(t, TokenStatusConfirmed, found.Status)
	require.Equal(t, "0xcontract", found.ContractAddress)
}

func TestTokenModelSetFailedStatus(t *testing.T) {
	model := newTestModel(t)
	token := newPendingToken(t, model, "MEME", "0xaaa")

	require.NoError(t, model.SetFailedStatus(context.Background(), token.ID, "execution reverted"))

	found, err := model.FindByGUID(context.Background(), token.GUID)
	require.NoError(t, err)
	require.Equal(t, TokenStatusFailed, found.Status)
	require.Equal(t, "execution reverted", found.FailReason)
}

func TestTokenModelFindAll(t *testing.T) {
	model := newTestModel(t)
	newPendingToken(t, model, "AAA", "0xaaa")
	newPendingToken(t, model, "BBB", "0xbbb")
	newPendingToken(t, model, "CCC", "0xccc")

	tokens, err := model.FindAll(context.Background(), 0, 2)
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	// 按ID倒序
	require.Equal(t, "CCC", tokens[0].Symbol)
	require.Equal(t, "BBB", tokens[1].Symbol)

	tokens, err = model.FindAll(context.Background(), 2, 2)
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	require.Equal(t, "AAA", tokens[0].Symbol)
}
