package dto

// SwapRequest is the JSON body of /quote and /swap.
type SwapRequest struct {
	SellToken          string   `json:"sellToken" validate:"required"`
	BuyToken           string   `json:"buyToken" validate:"required"`
	SellAmount         string   `json:"sellAmount" validate:"required"`
	Taker              string   `json:"taker"`
	SlippagePercentage *float64 `json:"slippagePercentage"`
	ChainID            *uint64  `json:"chainId"`
}

// PoolsRequest is the query of /pools.
type PoolsRequest struct {
	First int `schema:"first" default:"20" validate:"min=1,max=100"`
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	Raw     any    `json:"raw,omitempty"`
}
