package storage

import (
	"dm-lab/domain"
	"fmt"
	"strconv"
	"strings"
)

// Key layout. User ids and timestamps are zero padded to 19 digits so the
// lexicographic order of badger keys is also the numeric order.
//
//	room:{room_id}                          -> Room
//	pair:{low_user}:{high_user}             -> room_id (16 bytes)
//	member:{user}:{room_id}                 -> empty
//	msg:{room_id}:{created_at}:{message_id} -> Message
//	msgidx:{message_id}                     -> msg key
//	block:{actor}:{target}                  -> Block
//	report:{actor}:{target}:{report_id}     -> Report
//	reportidx:{report_id}                   -> report key
//	profile:{user}                          -> Profile

func roomKey(id domain.RoomID) []byte {
	return []byte("room:" + id.String())
}

func pairKey(a, b domain.UserID) []byte {
	low, high := domain.OrderedPair(a, b)
	return []byte(fmt.Sprintf("pair:%019d:%019d", low, high))
}

func memberPrefix(user domain.UserID) []byte {
	return []byte(fmt.Sprintf("member:%019d:", user))
}

func memberKey(user domain.UserID, room domain.RoomID) []byte {
	return append(memberPrefix(user), room.String()...)
}

func messagePrefix(room domain.RoomID) []byte {
	return []byte("msg:" + room.String() + ":")
}

func messageKey(m domain.Message) []byte {
	return []byte(fmt.Sprintf("%s%019d:%s", messagePrefix(m.RoomID), m.CreatedAt.UnixNano(), m.ID))
}

func messageIndexKey(id domain.MessageID) []byte {
	return []byte("msgidx:" + id.String())
}

const blockPrefix = "block:"

func blockKey(actor, target domain.UserID) []byte {
	return []byte(fmt.Sprintf("%s%019d:%019d", blockPrefix, actor, target))
}

func blocksByPrefix(actor domain.UserID) []byte {
	return []byte(fmt.Sprintf("%s%019d:", blockPrefix, actor))
}

const reportPrefix = "report:"

func reportPairPrefix(actor, target domain.UserID) []byte {
	return []byte(fmt.Sprintf("%s%019d:%019d:", reportPrefix, actor, target))
}

func reportsByPrefix(actor domain.UserID) []byte {
	return []byte(fmt.Sprintf("%s%019d:", reportPrefix, actor))
}

func reportKey(r domain.Report) []byte {
	return append(reportPairPrefix(r.Actor, r.Target), r.ID.String()...)
}

func reportIndexKey(id domain.ReportID) []byte {
	return []byte("reportidx:" + id.String())
}

func profileKey(id domain.UserID) []byte {
	return []byte(fmt.Sprintf("profile:%019d", id))
}

// edgeUsers extracts actor and target from a block or report key.
func edgeUsers(key []byte, prefix string) (domain.UserID, domain.UserID, error) {
	parts := strings.SplitN(strings.TrimPrefix(string(key), prefix), ":", 3)
	if len(parts) < 2 {
		return domain.NoUser, domain.NoUser, fmt.Errorf("malformed edge key %q", key)
	}
	actor, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return domain.NoUser, domain.NoUser, fmt.Errorf("malformed edge key %q: %w", key, err)
	}
	target, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return domain.NoUser, domain.NoUser, fmt.Errorf("malformed edge key %q: %w", key, err)
	}
	return domain.UserID(actor), domain.UserID(target), nil
}

// seekLast is the position just after every key of prefix, for reverse iteration.
func seekLast(prefix []byte) []byte {
	return append(append([]byte{}, prefix...), 0xFF)
}
