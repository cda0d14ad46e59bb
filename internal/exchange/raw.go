package exchange

import "encoding/json"

// Сырые формы ответов займового API.
//
// Биржа исторически отдает одни и те же данные под разными ключами
// (loanCoin/asset, totalDebt/totalAmount, hourlyInterestRate/hourlyInterest),
// а числа - строками. Все числовые поля читаем как json.Number и
// разбираем в normalize.go, чтобы битая запись ломала только себя,
// а не весь цикл обновления.

// RawPosition - займовая позиция в том виде, в котором ее отдает биржа
type RawPosition struct {
	LoanID           string      `json:"loanId"`
	LoanCoin         string      `json:"loanCoin"`
	Asset            string      `json:"asset"` // альтернативный ключ для LoanCoin
	CollateralCoin   string      `json:"collateralCoin"`
	TotalDebt        json.Number `json:"totalDebt"`
	TotalAmount      json.Number `json:"totalAmount"` // альтернативный ключ для TotalDebt
	LoanAmount       json.Number `json:"loanAmount"`
	CollateralAmount json.Number `json:"collateralAmount"`
	CurrentLTV       json.Number `json:"currentLTV"`
	HourlyRate       json.Number `json:"hourlyInterestRate"`
	HourlyInterest   json.Number `json:"hourlyInterest"` // абсолютное начисление в час
}

// RawLoanProduct - займовый продукт в том виде, в котором его отдает биржа
type RawLoanProduct struct {
	Asset      string      `json:"asset"`
	AssetName  string      `json:"assetName"` // альтернативный ключ для Asset
	MinAmount  json.Number `json:"minLimit"`
	MaxAmount  json.Number `json:"maxLimit"`
	AnnualRate json.Number `json:"flexibleInterestRate"`
	Status     string      `json:"status"`
}
