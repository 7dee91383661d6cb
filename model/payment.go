package model

type PaymentIntentInput struct {
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	Currency  string  `json:"currency" validate:"omitempty,len=3,alpha"`
	BookingId string  `json:"bookingId"`
}

type UploadSignatureInput struct {
	Folder string `json:"folder" validate:"omitempty,max=100,printascii"`
}
