package storage

import (
	"dm-lab/domain"
	"fmt"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protowire"
)

// Values are stored in the protobuf wire format. Field numbers below are the
// storage schema: never reuse a number, only add new ones.

const (
	roomFieldID        protowire.Number = 1
	roomFieldUserA     protowire.Number = 2
	roomFieldUserB     protowire.Number = 3
	roomFieldLeftBy    protowire.Number = 4
	roomFieldPinned    protowire.Number = 5
	roomFieldCreatedAt protowire.Number = 6
	roomFieldUpdatedAt protowire.Number = 7
)

const (
	messageFieldID        protowire.Number = 1
	messageFieldRoomID    protowire.Number = 2
	messageFieldSenderID  protowire.Number = 3
	messageFieldContent   protowire.Number = 4
	messageFieldKind      protowire.Number = 5
	messageFieldRead      protowire.Number = 6
	messageFieldPinned    protowire.Number = 7
	messageFieldCreatedAt protowire.Number = 8
	messageFieldFileURL   protowire.Number = 9
	messageFieldFileName  protowire.Number = 10
	messageFieldFileSize  protowire.Number = 11
	messageFieldFileType  protowire.Number = 12
)

const (
	blockFieldActor     protowire.Number = 1
	blockFieldTarget    protowire.Number = 2
	blockFieldCreatedAt protowire.Number = 3
)

const (
	reportFieldID        protowire.Number = 1
	reportFieldActor     protowire.Number = 2
	reportFieldTarget    protowire.Number = 3
	reportFieldReason    protowire.Number = 4
	reportFieldContent   protowire.Number = 5
	reportFieldStatus    protowire.Number = 6
	reportFieldCreatedAt protowire.Number = 7
)

const (
	profileFieldID    protowire.Number = 1
	profileFieldName  protowire.Number = 2
	profileFieldImage protowire.Number = 3
)

// encoder skips zero values, like proto3 does.
type encoder struct {
	b []byte
}

func (e *encoder) varint(num protowire.Number, v uint64) {
	if v == 0 {
		return
	}
	e.b = protowire.AppendTag(e.b, num, protowire.VarintType)
	e.b = protowire.AppendVarint(e.b, v)
}

func (e *encoder) int64(num protowire.Number, v int64) { e.varint(num, uint64(v)) }

func (e *encoder) bool(num protowire.Number, v bool) {
	if v {
		e.varint(num, 1)
	}
}

func (e *encoder) time(num protowire.Number, t time.Time) {
	if t.IsZero() {
		return
	}
	e.int64(num, t.UnixNano())
}

func (e *encoder) bytes(num protowire.Number, v []byte) {
	if len(v) == 0 {
		return
	}
	e.b = protowire.AppendTag(e.b, num, protowire.BytesType)
	e.b = protowire.AppendBytes(e.b, v)
}

func (e *encoder) string(num protowire.Number, v string) {
	if v == "" {
		return
	}
	e.b = protowire.AppendTag(e.b, num, protowire.BytesType)
	e.b = protowire.AppendString(e.b, v)
}

type field struct {
	num    protowire.Number
	varint uint64
	bytes  []byte
}

func (f field) int64() int64 { return int64(f.varint) }

func (f field) bool() bool { return f.varint != 0 }

func (f field) time() time.Time { return time.Unix(0, f.int64()).UTC() }

func (f field) string() string { return string(f.bytes) }

func (f field) uuid() (uuid.UUID, error) { return uuid.FromBytes(f.bytes) }

// readFields walks a record and returns its known-typed fields.
// Fields of other wire types are skipped so older binaries can read newer records.
func readFields(b []byte) ([]field, error) {
	var fields []field
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]
		f := field{num: num}
		switch typ {
		case protowire.VarintType:
			f.varint, n = protowire.ConsumeVarint(b)
		case protowire.BytesType:
			f.bytes, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			b = b[n:]
			continue
		}
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]
		fields = append(fields, f)
	}
	return fields, nil
}

func encodeRoom(r domain.Room) []byte {
	id := uuid.UUID(r.ID)
	e := encoder{}
	e.bytes(roomFieldID, id[:])
	e.int64(roomFieldUserA, int64(r.UserA))
	e.int64(roomFieldUserB, int64(r.UserB))
	e.int64(roomFieldLeftBy, int64(r.LeftBy))
	e.bool(roomFieldPinned, r.Pinned)
	e.time(roomFieldCreatedAt, r.CreatedAt)
	e.time(roomFieldUpdatedAt, r.UpdatedAt)
	return e.b
}

func decodeRoom(b []byte) (domain.Room, error) {
	fields, err := readFields(b)
	if err != nil {
		return domain.Room{}, fmt.Errorf("decoding room: %w", err)
	}
	var r domain.Room
	for _, f := range fields {
		switch f.num {
		case roomFieldID:
			id, err := f.uuid()
			if err != nil {
				return domain.Room{}, fmt.Errorf("decoding room id: %w", err)
			}
			r.ID = domain.RoomID(id)
		case roomFieldUserA:
			r.UserA = domain.UserID(f.int64())
		case roomFieldUserB:
			r.UserB = domain.UserID(f.int64())
		case roomFieldLeftBy:
			r.LeftBy = domain.UserID(f.int64())
		case roomFieldPinned:
			r.Pinned = f.bool()
		case roomFieldCreatedAt:
			r.CreatedAt = f.time()
		case roomFieldUpdatedAt:
			r.UpdatedAt = f.time()
		}
	}
	return r, nil
}

func encodeMessage(m domain.Message) []byte {
	id, room := uuid.UUID(m.ID), uuid.UUID(m.RoomID)
	e := encoder{}
	e.bytes(messageFieldID, id[:])
	e.bytes(messageFieldRoomID, room[:])
	e.int64(messageFieldSenderID, int64(m.SenderID))
	e.string(messageFieldContent, m.Content)
	e.varint(messageFieldKind, uint64(m.Kind))
	e.bool(messageFieldRead, m.Read)
	e.bool(messageFieldPinned, m.Pinned)
	e.time(messageFieldCreatedAt, m.CreatedAt)
	if m.File != nil {
		e.string(messageFieldFileURL, m.File.URL)
		e.string(messageFieldFileName, m.File.Name)
		e.int64(messageFieldFileSize, m.File.Size)
		e.string(messageFieldFileType, m.File.Type)
	}
	return e.b
}

func decodeMessage(b []byte) (domain.Message, error) {
	fields, err := readFields(b)
	if err != nil {
		return domain.Message{}, fmt.Errorf("decoding message: %w", err)
	}
	var (
		m    domain.Message
		file domain.FileMeta
	)
	for _, f := range fields {
		switch f.num {
		case messageFieldID:
			id, err := f.uuid()
			if err != nil {
				return domain.Message{}, fmt.Errorf("decoding message id: %w", err)
			}
			m.ID = domain.MessageID(id)
		case messageFieldRoomID:
			id, err := f.uuid()
			if err != nil {
				return domain.Message{}, fmt.Errorf("decoding message room id: %w", err)
			}
			m.RoomID = domain.RoomID(id)
		case messageFieldSenderID:
			m.SenderID = domain.UserID(f.int64())
		case messageFieldContent:
			m.Content = f.string()
		case messageFieldKind:
			m.Kind = domain.MessageKind(f.varint)
		case messageFieldRead:
			m.Read = f.bool()
		case messageFieldPinned:
			m.Pinned = f.bool()
		case messageFieldCreatedAt:
			m.CreatedAt = f.time()
		case messageFieldFileURL:
			file.URL = f.string()
		case messageFieldFileName:
			file.Name = f.string()
		case messageFieldFileSize:
			file.Size = f.int64()
		case messageFieldFileType:
			file.Type = f.string()
		}
	}
	if file != (domain.FileMeta{}) {
		m.File = &file
	}
	return m, nil
}

func encodeBlock(b domain.Block) []byte {
	e := encoder{}
	e.int64(blockFieldActor, int64(b.Actor))
	e.int64(blockFieldTarget, int64(b.Target))
	e.time(blockFieldCreatedAt, b.CreatedAt)
	return e.b
}

func decodeBlock(b []byte) (domain.Block, error) {
	fields, err := readFields(b)
	if err != nil {
		return domain.Block{}, fmt.Errorf("decoding block: %w", err)
	}
	var block domain.Block
	for _, f := range fields {
		switch f.num {
		case blockFieldActor:
			block.Actor = domain.UserID(f.int64())
		case blockFieldTarget:
			block.Target = domain.UserID(f.int64())
		case blockFieldCreatedAt:
			block.CreatedAt = f.time()
		}
	}
	return block, nil
}

func encodeReport(r domain.Report) []byte {
	id := uuid.UUID(r.ID)
	e := encoder{}
	e.bytes(reportFieldID, id[:])
	e.int64(reportFieldActor, int64(r.Actor))
	e.int64(reportFieldTarget, int64(r.Target))
	e.string(reportFieldReason, r.Reason)
	e.string(reportFieldContent, r.Content)
	e.string(reportFieldStatus, string(r.Status))
	e.time(reportFieldCreatedAt, r.CreatedAt)
	return e.b
}

func decodeReport(b []byte) (domain.Report, error) {
	fields, err := readFields(b)
	if err != nil {
		return domain.Report{}, fmt.Errorf("decoding report: %w", err)
	}
	var r domain.Report
	for _, f := range fields {
		switch f.num {
		case reportFieldID:
			id, err := f.uuid()
			if err != nil {
				return domain.Report{}, fmt.Errorf("decoding report id: %w", err)
			}
			r.ID = domain.ReportID(id)
		case reportFieldActor:
			r.Actor = domain.UserID(f.int64())
		case reportFieldTarget:
			r.Target = domain.UserID(f.int64())
		case reportFieldReason:
			r.Reason = f.string()
		case reportFieldContent:
			r.Content = f.string()
		case reportFieldStatus:
			r.Status = domain.ReportStatus(f.string())
		case reportFieldCreatedAt:
			r.CreatedAt = f.time()
		}
	}
	return r, nil
}

func encodeProfile(p domain.Profile) []byte {
	e := encoder{}
	e.int64(profileFieldID, int64(p.ID))
	e.string(profileFieldName, p.Name)
	e.string(profileFieldImage, p.ProfileImage)
	return e.b
}

func decodeProfile(b []byte) (domain.Profile, error) {
	fields, err := readFields(b)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("decoding profile: %w", err)
	}
	var p domain.Profile
	for _, f := range fields {
		switch f.num {
		case profileFieldID:
			p.ID = domain.UserID(f.int64())
		case profileFieldName:
			p.Name = f.string()
		case profileFieldImage:
			p.ProfileImage = f.string()
		}
	}
	return p, nil
}
