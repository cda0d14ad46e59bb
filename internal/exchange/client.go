// Package exchange предоставляет доступ к займовому API биржи.
//
// Снаружи пакет отдает только канонические типы из internal/models:
// сырые ответы биржи нормализуются на границе (normalize.go), остальной
// движок гетерогенных форм данных не видит.
package exchange

import "context"

// Client определяет интерфейс удаленного коллаборатора биржи
//
// Реализации: RESTClient (живая сессия) и SimulatedClient
// (синтетические данные при гео-ограничении).
type Client interface {
	// GetAccount выполняет легкую проверку сессии (identity check)
	GetAccount(ctx context.Context) (*Account, error)

	// GetLoanPositions возвращает текущие займовые позиции в сыром
	// виде; нормализация делается вызывающим кодом (normalize.go)
	GetLoanPositions(ctx context.Context) ([]RawPosition, error)

	// GetLoanProducts возвращает доступные займовые продукты
	GetLoanProducts(ctx context.Context) ([]RawLoanProduct, error)

	// Name возвращает имя клиента для логов
	Name() string

	// Close закрывает соединения клиента
	Close() error
}

// Account представляет ответ identity check
type Account struct {
	AccountType string `json:"accountType"`
	CanTrade    bool   `json:"canTrade"`
	CanBorrow   bool   `json:"canBorrow"`
}
