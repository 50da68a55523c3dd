package rest

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
)

const MAX_PAGE_SIZE = 100

// ListNFTsQueryParams holds query parameters for GET /nfts
type ListNFTsQueryParams struct {
	// Filters
	Owner         string `form:"owner"`
	Creator       string `form:"creator"`
	ListedOnly    bool   `form:"listed"`
	IncludeBurned bool   `form:"include_burned"`

	// Pagination
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ParseListNFTsQuery parses query parameters for GET /nfts
func ParseListNFTsQuery(c *gin.Context) (*ListNFTsQueryParams, error) {
	var params ListNFTsQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	// Cap limits
	if params.Limit > MAX_PAGE_SIZE {
		params.Limit = MAX_PAGE_SIZE
	}
	if params.Limit <= 0 {
		params.Limit = 20
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	return &params, nil
}

// Validate checks filter values
func (p *ListNFTsQueryParams) Validate() error {
	if p.Owner != "" && !common.IsHexAddress(p.Owner) {
		return errors.New("owner must be a hex address")
	}
	if p.Creator != "" && !common.IsHexAddress(p.Creator) {
		return errors.New("creator must be a hex address")
	}
	return nil
}
