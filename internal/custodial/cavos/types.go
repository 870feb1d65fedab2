package cavos

import "github.com/shopspring/decimal"

type SwapRequest struct {
	Address          string
	Amount           string
	SellTokenAddress string
	BuyTokenAddress  string
}

type SwapResponse struct {
	Result      string `json:"result"`
	AccessToken string `json:"accessToken"`
}

type AuthResponse struct {
	Data struct {
		Email    string `json:"email"`
		AuthData struct {
			AccessToken string `json:"accessToken"`
		} `json:"authData"`
		Wallet struct {
			Address string `json:"address"`
			Network string `json:"network"`
		} `json:"wallet"`
	} `json:"data"`
}

func (r *AuthResponse) AccessToken() string {
	return r.Data.AuthData.AccessToken
}

func (r *AuthResponse) WalletAddress() string {
	return r.Data.Wallet.Address
}

type BalanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func (e *ErrorResponse) Error() string {
	if e.Message == "" {
		return "unknown cavos error"
	}
	return e.Message
}
