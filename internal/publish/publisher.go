package publish

import "context"

// Result — итог публикации файла во внешнем хранилище.
type Result struct {
	FileID   string
	Link     string
	Filename string
}

// Publisher задаёт интерфейс публикации локального файла во внешнем
// хранилище с получением общедоступной ссылки.
type Publisher interface {
	Publish(ctx context.Context, path, filename string) (Result, error)
}
