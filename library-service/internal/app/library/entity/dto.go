package entity

// SubmitReviewRequest - запрос на отправку отзыва с оценкой.
// Если у пользователя уже есть отзыв на книгу, прежняя оценка заменяется
type SubmitReviewRequest struct {
	BookID string `json:"book_id" validate:"required"`
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Text   string `json:"text" validate:"required,min=10,max=1000"`
}

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// SuccessResponse - стандартный ответ об успехе
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// BookListResponse - ответ со списком книг
type BookListResponse struct {
	Books []Book `json:"books"`
	Total int    `json:"total"`
}

// ReviewListResponse - ответ со списком отзывов
type ReviewListResponse struct {
	Reviews []Review `json:"reviews"`
	Total   int      `json:"total"`
}

// BookmarkStatusResponse - статус закладки для книги
type BookmarkStatusResponse struct {
	BookID     string `json:"book_id"`
	Bookmarked bool   `json:"bookmarked"`
}

// PageListResponse - ответ со страницами книги
type PageListResponse struct {
	Pages []BookPage `json:"pages"`
	Total int        `json:"total"`
}
