package moderation

import (
	"dm-lab/domain"
	"dm-lab/errors"
	"dm-lab/mocks"
	"fmt"
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestGate_Check(t *testing.T) {
	tests := []struct {
		name    string
		forward domain.Relation
		reverse domain.Relation
		want    error
	}{
		{"No edges", domain.Relation{}, domain.Relation{}, nil},
		{"A blocked B", domain.Relation{Blocked: true}, domain.Relation{}, errors.ErrPairGated},
		{"B blocked A", domain.Relation{}, domain.Relation{Blocked: true}, errors.ErrPairGated},
		{"A has a pending report on B", domain.Relation{PendingReport: true, AnyReport: true}, domain.Relation{}, errors.ErrPairGated},
		{"B has a pending report on A", domain.Relation{}, domain.Relation{PendingReport: true, AnyReport: true}, errors.ErrPairGated},
		{"Resolved reports only", domain.Relation{AnyReport: true}, domain.Relation{AnyReport: true}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			ctrl := gomock.NewController(t)
			reader := mocks.NewMockModerationReader(ctrl)
			reader.EXPECT().Relation(domain.UserID(1), domain.UserID(2)).Return(tt.forward, nil).AnyTimes()
			reader.EXPECT().Relation(domain.UserID(2), domain.UserID(1)).Return(tt.reverse, nil).AnyTimes()
			gate := NewGate(logs.GetLoggerFromLevel(slog.LevelDebug))

			err := gate.Check(reader, 1, 2)
			if tt.want == nil {
				req.NoError(err)
			} else {
				req.ErrorIs(err, tt.want)
				req.ErrorIs(err, errors.ErrForbidden)
			}

			// The predicate is symmetric
			gatedAB, err := gate.IsGated(reader, 1, 2)
			req.NoError(err)
			gatedBA, err := gate.IsGated(reader, 2, 1)
			req.NoError(err)
			req.Equal(gatedAB, gatedBA)
		})
	}
}

func TestGate_Fails_Closed(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	reader := mocks.NewMockModerationReader(ctrl)
	boom := fmt.Errorf("disk on fire")
	reader.EXPECT().Relation(gomock.Any(), gomock.Any()).Return(domain.Relation{}, boom)
	gate := NewGate(logs.GetLoggerFromLevel(slog.LevelDebug))

	gated, err := gate.IsGated(reader, 1, 2)
	req.True(gated)
	req.ErrorIs(err, boom)

	reader.EXPECT().Relation(gomock.Any(), gomock.Any()).Return(domain.Relation{}, boom)
	req.ErrorIs(gate.Check(reader, 1, 2), boom)
}
