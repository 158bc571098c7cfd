package dto

// TipRequest: send coins to the creator of a manga
type TipRequest struct {
	MangaID string `json:"manga_id" binding:"required"`
	Amount  int64  `json:"amount" binding:"required,gt=0"`
}

// CheckoutRequest: buy coins through the payment provider
type CheckoutRequest struct {
	CoinAmount int64 `json:"coin_amount" binding:"required,gt=0"`
}

// BalanceResponse: the caller's current coin balance
type BalanceResponse struct {
	UserID string `json:"user_id"`
	Coins  int64  `json:"coins"`
}

// CheckoutSessionResponse: provider-hosted payment page for the purchase
type CheckoutSessionResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// AdjustCoinsRequest: admin-only signed balance adjustment
type AdjustCoinsRequest struct {
	Delta int64 `json:"delta" binding:"required"`
}

// RoleUpdateRequest: admin-only role change
type RoleUpdateRequest struct {
	Role string `json:"role" binding:"required,oneof=viewer creator admin"`
}

// VerifyUserRequest: admin-only verified-badge toggle
type VerifyUserRequest struct {
	Verified *bool `json:"verified" binding:"required"`
}
