package model

// Response envelopes. Errors always render as ErrorResponse via the
// handler's error hook.

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type BookResponse struct {
	Success bool       `json:"success"`
	Book    BookDetail `json:"book"`
}

type BooksResponse struct {
	Success bool         `json:"success"`
	Count   int          `json:"count"`
	Books   []BookDetail `json:"books"`
}

type OwnBooksResponse struct {
	Success bool   `json:"success"`
	Count   int    `json:"count"`
	Books   []Book `json:"books"`
}

type ExchangeResponse struct {
	Success  bool           `json:"success"`
	Exchange ExchangeDetail `json:"exchange"`
}

type ExchangesResponse struct {
	Success   bool             `json:"success"`
	Count     int              `json:"count"`
	Exchanges []ExchangeDetail `json:"exchanges"`
}

type MessageSentResponse struct {
	Success     bool    `json:"success"`
	SentMessage Message `json:"sentMessage"`
}

type MessagesResponse struct {
	Success  bool      `json:"success"`
	Count    int       `json:"count"`
	Messages []Message `json:"messages"`
}

type NotificationsResponse struct {
	Success       bool           `json:"success"`
	Count         int            `json:"count"`
	Notifications []Notification `json:"notifications"`
}
