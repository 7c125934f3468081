package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestMapToHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"self chat", ErrSelfChat, http.StatusBadRequest},
		{"invalid token", ErrInvalidToken, http.StatusUnauthorized},
		{"gated pair", ErrPairGated, http.StatusForbidden},
		{"wrapped room not found", fmt.Errorf("leave room: %w", ErrRoomNotFound), http.StatusNotFound},
		{"double leave", ErrAlreadyLeft, http.StatusConflict},
		{"infrastructure", fmt.Errorf("badger: closed"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, MapToHTTPStatus(tt.err))
		})
	}
}

func TestMapToGRPCError(t *testing.T) {
	req := require.New(t)

	req.NoError(MapToGRPCError(nil))

	st, ok := status.FromError(MapToGRPCError(ErrNotParticipant))
	req.True(ok)
	req.Equal(codes.PermissionDenied, st.Code())

	st, ok = status.FromError(MapToGRPCError(fmt.Errorf("disk full")))
	req.True(ok)
	req.Equal(codes.Internal, st.Code())
	req.NotContains(st.Message(), "disk")
}

func TestSpecificErrorsWrapTheirRoot(t *testing.T) {
	req := require.New(t)
	req.True(Is(ErrRoomNotFound, ErrNotFound))
	req.True(Is(ErrSenderLeft, ErrInvalidState))
	req.True(Is(ErrPairGated, ErrForbidden))
	req.False(Is(ErrPairGated, ErrNotFound))
}
