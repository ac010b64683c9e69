package domain

type Review struct {
	ProductID int
	Username  string
	Rating    int
	Comment   string
}
