package dto

import (
	"campsite/internal/domain/block"
	"campsite/internal/domain/shared/daterange"
)

type Block struct {
	ID        string `json:"id"`
	SiteID    string `json:"siteId"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Memo      string `json:"memo,omitempty"`
	IsPaid    bool   `json:"isPaid"`
	GuestName string `json:"guestName,omitempty"`
	Contact   string `json:"contact,omitempty"`
}

func MapBlock(b *block.Block) Block {
	return Block{
		ID:        string(b.ID),
		SiteID:    string(b.SiteID),
		StartDate: daterange.FormatDate(b.Range.CheckIn),
		EndDate:   daterange.FormatDate(b.Range.CheckOut),
		Memo:      b.Memo,
		IsPaid:    b.IsPaid,
		GuestName: b.GuestName,
		Contact:   b.Contact,
	}
}

func MapBlocks(items []*block.Block) []Block {
	out := make([]Block, 0, len(items))
	for _, b := range items {
		out = append(out, MapBlock(b))
	}
	return out
}
