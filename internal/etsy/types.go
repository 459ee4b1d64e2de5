package etsy

// Price はEtsy APIの価格表現を表す。
// 金額は整数のamountと除数divisorの組で返される（例: amount=1999, divisor=2 → 19.99）。
type Price struct {
	Amount       int64  `json:"amount"`
	Divisor      int64  `json:"divisor"`
	CurrencyCode string `json:"currency_code"`
}

// Listing はEtsy APIから返される出品レコードを表す。
// 正規化に必要なフィールドのみマッピングする。
type Listing struct {
	ListingID int64  `json:"listing_id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Price     Price  `json:"price"`
}

// Image は出品画像レコードを表す。
// 解像度ごとに別フィールドでURLが返され、存在するフィールドは出品により異なる。
type Image struct {
	ListingImageID int64  `json:"listing_image_id"`
	URLFullxfull   string `json:"url_fullxfull"`
	URL570xN       string `json:"url_570xN"`
	URL170x135     string `json:"url_170x135"`
	URL75x75       string `json:"url_75x75"`
}

// imageVariants は解像度フィールドの優先順位リストを返す（高解像度優先）。
func (im Image) imageVariants() []string {
	return []string{im.URLFullxfull, im.URL570xN, im.URL170x135, im.URL75x75}
}

// PreferredURL は存在する解像度のうち最も高いもののURLを返す。
// どの解像度フィールドも存在しない場合は空文字列を返す。
func (im Image) PreferredURL() string {
	for _, u := range im.imageVariants() {
		if u != "" {
			return u
		}
	}
	return ""
}

// listingsResponse は出品リストエンドポイントのレスポンス。
type listingsResponse struct {
	Count   int       `json:"count"`
	Results []Listing `json:"results"`
}

// imagesResponse は出品画像エンドポイントのレスポンス。
type imagesResponse struct {
	Count   int     `json:"count"`
	Results []Image `json:"results"`
}

// tokenResponse はトークンエンドポイントのレスポンス。
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
}
