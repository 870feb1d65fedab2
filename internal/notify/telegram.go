package notify

import (
	"fmt"
	"net/http"

	"github.com/fachebot/starknet-launchpad/internal/config"
	"github.com/fachebot/starknet-launchpad/internal/logger"
	"github.com/fachebot/starknet-launchpad/internal/model"
	"github.com/fachebot/starknet-launchpad/internal/utils"

	"github.com/dustin/go-humanize"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
)

// Notifier 向运营频道推送发射与交易通知
type Notifier struct {
	botApi  *tgbotapi.BotAPI
	chatId  int64
	network string
}

func NewNotifier(c config.TelegramBot, network string, transportProxy *http.Transport) (*Notifier, error) {
	if !c.Enable {
		return nil, nil
	}

	httpClient := new(http.Client)
	if transportProxy != nil {
		httpClient.Transport = transportProxy
	}

	botApi, err := tgbotapi.NewBotAPIWithClient(c.ApiToken, tgbotapi.APIEndpoint, httpClient)
	if err != nil {
		return nil, err
	}

	return &Notifier{botApi: botApi, chatId: c.ChatId, network: network}, nil
}

func (n *Notifier) send(text string) {
	msg := tgbotapi.NewMessage(n.chatId, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true

	_, err := n.botApi.Send(msg)
	if err != nil {
		logger.Warnf("[Notifier] 发送电报通知失败, chatId: %d, %v", n.chatId, err)
	}
}

// NotifyTokenConfirmed 代币发射确认上链
func (n *Notifier) NotifyTokenConfirmed(token *model.Token) {
	text := fmt.Sprintf("🚀 代币 *%s* ($%s) 发射成功\n`%s`\n\n[合约](%s) | [交易](%s)",
		token.Name,
		token.Symbol,
		token.ContractAddress,
		utils.GetVoyagerContractLink(n.network, token.ContractAddress),
		utils.GetVoyagerTxLink(n.network, token.DeployTxHash),
	)
	n.send(text)
}

// NotifyTokenFailed 代币发射交易被驳回
func (n *Notifier) NotifyTokenFailed(token *model.Token, reason string) {
	text := fmt.Sprintf("❌ 代币 *%s* ($%s) 发射失败, 原因: %s [>>](%s)",
		token.Name, token.Symbol, reason, utils.GetVoyagerTxLink(n.network, token.DeployTxHash))
	n.send(text)
}

// NotifySwapSettled 交易结算成功
func (n *Notifier) NotifySwapSettled(address string, amount decimal.Decimal, symbol string, txHash string) {
	text := fmt.Sprintf("✅ 交易结算成功, 账户: `%s`, 数量: %s %s [>>](%s)",
		address,
		humanize.CommafWithDigits(amount.InexactFloat64(), 4),
		symbol,
		utils.GetVoyagerTxLink(n.network, txHash),
	)
	n.send(text)
}
