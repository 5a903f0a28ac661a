package reviewservice

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/holkiv/topupbot/internal/domain"
)

func NewMock(t *testing.T) (*Service, *MockRepo) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockRepo(ctrl)
	service := New(repo)
	return service, repo
}

func TestService_Add(t *testing.T) {
	service, repo := NewMock(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		rating    int
		mockSetup func()
		wantErr   error
	}{
		{
			name:   "Success",
			rating: 5,
			mockSetup: func() {
				repo.EXPECT().Create(ctx, &domain.Review{
					UserID: 100,
					Rating: 5,
					Text:   "fast delivery",
					Game:   "PUBG",
				}).Return(nil)
			},
		},
		{
			name:      "RatingTooLow",
			rating:    0,
			mockSetup: func() {},
			wantErr:   ErrInvalidRating,
		},
		{
			name:      "RatingTooHigh",
			rating:    6,
			mockSetup: func() {},
			wantErr:   ErrInvalidRating,
		},
		{
			name:   "RepoError",
			rating: 3,
			mockSetup: func() {
				repo.EXPECT().Create(ctx, gomock.Any()).Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			err := service.Add(ctx, 100, tt.rating, "fast delivery", "PUBG")
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestService_ListByGame(t *testing.T) {
	service, repo := NewMock(t)
	ctx := context.Background()

	reviews := []domain.Review{
		{ID: 1, UserID: 100, Rating: 5, Text: "great", Game: "PUBG"},
		{ID: 2, UserID: 101, Rating: 4, Text: "ok", Game: "PUBG"},
	}

	tests := []struct {
		name      string
		mockSetup func()
		want      []domain.Review
		wantErr   bool
	}{
		{
			name: "Success",
			mockSetup: func() {
				repo.EXPECT().FindByGame(ctx, "PUBG", listLimit).Return(reviews, nil)
			},
			want: reviews,
		},
		{
			name: "RepoError",
			mockSetup: func() {
				repo.EXPECT().FindByGame(ctx, "PUBG", listLimit).Return(nil, errors.New("db error"))
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			got, err := service.ListByGame(ctx, "PUBG")
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
