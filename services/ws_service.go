package services

import (
	"encoding/json"
	"strings"

	"github.com/olahol/melody"
	"github.com/schollz/closestmatch"
	"github.com/texttheater/golang-levenshtein/levenshtein"

	"stayhub/dto"
	apperrors "stayhub/errors"
	"stayhub/services/logger"
)

// Op của lệnh websocket. Tập lệnh đóng: dispatch qua bảng tĩnh, không
// reflection, lệnh lạ được fuzzy-match về lệnh gần nhất.
const (
	OpQuote        = "quote"
	OpChat         = "chat"
	OpConfirm      = "confirm"
	OpAvailability = "availability"
	OpAdvice       = "advice"
	OpHelp         = "help"
)

const maxOpDistance = 2

// wsEnvelope là lớp parse thứ nhất: chỉ lấy op, payload giữ nguyên raw
type wsEnvelope struct {
	Op      string          `json:"op"`
	Payload json.RawMessage `json:"payload"`
}

type wsChatPayload struct {
	BookingID string `json:"bookingId"`
	Message   string `json:"message"`
}

type wsConfirmPayload struct {
	BookingID string `json:"bookingId"`
}

type wsAvailabilityPayload struct {
	PropertyID string `json:"propertyId"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
}

type wsAdvicePayload struct {
	HostID string `json:"hostId"`
	Focus  string `json:"focus"`
}

type wsReply struct {
	Op    string      `json:"op"`
	OK    bool        `json:"ok"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

type wsHandler func(payload json.RawMessage) (interface{}, error)

// ChatDispatcher nhận lệnh JSON qua websocket và điều phối vào service
type ChatDispatcher struct {
	handlers map[string]wsHandler
	ops      []string
	matcher  *closestmatch.ClosestMatch
	logger   logger.Logger
}

// NewChatDispatcher tạo dispatcher với bảng lệnh tĩnh
func NewChatDispatcher(bookings *BookingService, hosts *HostService, lg logger.Logger) *ChatDispatcher {
	if lg == nil {
		lg = logger.NewDefaultLogger(logger.InfoLevel)
	}
	d := &ChatDispatcher{logger: lg}

	d.handlers = map[string]wsHandler{
		OpQuote: func(payload json.RawMessage) (interface{}, error) {
			var req dto.QuoteRequest
			if err := json.Unmarshal(payload, &req); err != nil {
				return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidInput, "Payload không hợp lệ", err)
			}
			return bookings.CreateQuote(req)
		},
		OpChat: func(payload json.RawMessage) (interface{}, error) {
			var req wsChatPayload
			if err := json.Unmarshal(payload, &req); err != nil {
				return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidInput, "Payload không hợp lệ", err)
			}
			reply, err := bookings.Chat(req.BookingID, req.Message)
			if err != nil {
				return nil, err
			}
			return dto.ChatResponse{Reply: reply}, nil
		},
		OpConfirm: func(payload json.RawMessage) (interface{}, error) {
			var req wsConfirmPayload
			if err := json.Unmarshal(payload, &req); err != nil {
				return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidInput, "Payload không hợp lệ", err)
			}
			message, err := bookings.Confirm(req.BookingID)
			if err != nil {
				return nil, err
			}
			return map[string]string{"message": message}, nil
		},
		OpAvailability: func(payload json.RawMessage) (interface{}, error) {
			var req wsAvailabilityPayload
			if err := json.Unmarshal(payload, &req); err != nil {
				return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidInput, "Payload không hợp lệ", err)
			}
			return bookings.CheckAvailability(req.PropertyID, req.StartDate, req.EndDate, "")
		},
		OpAdvice: func(payload json.RawMessage) (interface{}, error) {
			var req wsAdvicePayload
			if err := json.Unmarshal(payload, &req); err != nil {
				return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidInput, "Payload không hợp lệ", err)
			}
			return hosts.GetHostAdvice(req.HostID, req.Focus)
		},
		OpHelp: func(json.RawMessage) (interface{}, error) {
			return map[string]interface{}{
				"ops": []string{OpQuote, OpChat, OpConfirm, OpAvailability, OpAdvice, OpHelp},
			}, nil
		},
	}

	for op := range d.handlers {
		d.ops = append(d.ops, op)
	}
	d.matcher = closestmatch.New(d.ops, []int{2, 3})
	return d
}

// ResolveOp đưa op gõ sai về lệnh gần nhất, khoảng cách tối đa 2 ký tự
func (d *ChatDispatcher) ResolveOp(op string) (string, bool) {
	op = strings.ToLower(strings.TrimSpace(op))
	if _, ok := d.handlers[op]; ok {
		return op, true
	}
	if op == "" {
		return "", false
	}
	candidate := d.matcher.Closest(op)
	if candidate == "" {
		return "", false
	}
	distance := levenshtein.DistanceForStrings([]rune(op), []rune(candidate), levenshtein.DefaultOptions)
	if distance > maxOpDistance {
		return "", false
	}
	return candidate, true
}

// Dispatch xử lý một message và trả về reply đã encode
func (d *ChatDispatcher) Dispatch(msg []byte) []byte {
	var env wsEnvelope
	if err := json.Unmarshal(msg, &env); err != nil {
		return encodeReply(wsReply{Op: "", OK: false, Error: "Message phải là JSON có trường op"})
	}

	op, ok := d.ResolveOp(env.Op)
	if !ok {
		return encodeReply(wsReply{Op: env.Op, OK: false, Error: "Lệnh không hỗ trợ. Gửi op=help để xem danh sách."})
	}

	payload := env.Payload
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}

	data, err := d.handlers[op](payload)
	if err != nil {
		d.logger.Error("Lỗi xử lý lệnh ws %s: %v", op, err)
		if appErr := apperrors.GetAppError(err); appErr != nil {
			return encodeReply(wsReply{Op: op, OK: false, Error: appErr.Message})
		}
		return encodeReply(wsReply{Op: op, OK: false, Error: "Lỗi hệ thống"})
	}
	return encodeReply(wsReply{Op: op, OK: true, Data: data})
}

// HandleWS gắn dispatcher vào melody, reply về đúng session gửi lệnh
func (d *ChatDispatcher) HandleWS(m *melody.Melody) {
	m.HandleMessage(func(s *melody.Session, msg []byte) {
		if err := s.Write(d.Dispatch(msg)); err != nil {
			d.logger.Error("Lỗi gửi reply ws: %v", err)
		}
	})
}

func encodeReply(r wsReply) []byte {
	out, err := json.Marshal(r)
	if err != nil {
		return []byte(`{"ok":false,"error":"encode failure"}`)
	}
	return out
}
