package persistent

import (
	"context"
	"fmt"
	"time"

	"github.com/noslackpact/noslack"
	"github.com/uptrace/bun"
)

type Media struct {
	bun.BaseModel `bun:"table:media"`

	Id             int64     `bun:",pk,autoincrement"`
	CreatedAt      time.Time `bun:",nullzero,notnull,default:current_timestamp"`
	PactId         int64     `bun:",notnull"`
	ActivityId     int64     `bun:",notnull"`
	UserId         int64     `bun:",notnull"`
	Provider       string    `bun:",notnull"`
	ProviderFileId string    `bun:",notnull"`
	Name           string    `bun:",notnull"`
	MimeType       string    `bun:",notnull"`
	SizeBytes      int64     `bun:",notnull"`
	Visibility     string    `bun:",notnull,default:'link'"`
	WebViewLink    string    `bun:",nullzero"`
	WebContentLink string    `bun:",nullzero"`
}

func (m Media) ToDomain() noslack.Media {
	return noslack.Media{
		Id:             m.Id,
		CreatedAt:      m.CreatedAt,
		PactId:         m.PactId,
		ActivityId:     m.ActivityId,
		UserId:         noslack.UserId(m.UserId),
		Provider:       m.Provider,
		ProviderFileId: m.ProviderFileId,
		Name:           m.Name,
		MimeType:       m.MimeType,
		SizeBytes:      m.SizeBytes,
		Visibility:     m.Visibility,
		WebViewLink:    m.WebViewLink,
		WebContentLink: m.WebContentLink,
	}
}

type MediaStore struct {
	DB *bun.DB
}

var _ noslack.MediaStore = (*MediaStore)(nil)

func (s *MediaStore) Create(ctx context.Context, media noslack.Media) (noslack.Media, error) {
	model := &Media{
		PactId:         media.PactId,
		ActivityId:     media.ActivityId,
		UserId:         int64(media.UserId),
		Provider:       media.Provider,
		ProviderFileId: media.ProviderFileId,
		Name:           media.Name,
		MimeType:       media.MimeType,
		SizeBytes:      media.SizeBytes,
		Visibility:     media.Visibility,
		WebViewLink:    media.WebViewLink,
		WebContentLink: media.WebContentLink,
	}
	_, err := s.DB.NewInsert().
		Model(model).
		Exec(ctx)
	if err != nil {
		return noslack.Media{}, fmt.Errorf("insert media: %w", err)
	}
	return model.ToDomain(), nil
}

func (s *MediaStore) ByOwnerInRange(ctx context.Context, pactId int64, activityId int64,
	userId noslack.UserId, start time.Time, end time.Time) ([]noslack.Media, error) {
	var media []Media
	err := s.DB.NewSelect().
		Model((*Media)(nil)).
		Where("pact_id=?", pactId).
		Where("activity_id=?", activityId).
		Where("user_id=?", int64(userId)).
		Where("created_at BETWEEN ? AND ?", start, end).
		Order("created_at ASC").
		Scan(ctx, &media)
	if err != nil {
		return nil, fmt.Errorf("select media: %w", err)
	}
	mapped := make([]noslack.Media, len(media))
	for i, m := range media {
		mapped[i] = m.ToDomain()
	}
	return mapped, nil
}
