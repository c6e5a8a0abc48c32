package ws

import (
	"encoding/json"
	"errors"

	"github.com/go-viper/mapstructure/v2"
)

type Kind int

const (
	Text Kind = iota
	Structured
)

func (k Kind) String() string {
	if k == Structured {
		return "structured"
	}
	return "text"
}

// Message 是入站消息的标签联合：能按 JSON 解析就是 Structured（Value 为解析结果），
// 否则是 Text。每条消息单独判定，与连接无关。
type Message struct {
	Kind  Kind
	Value any
	Raw   string
}

// ParseMessage 对原始负载做一次 JSON 解析尝试。
func ParseMessage(raw []byte) Message {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return Message{Kind: Text, Raw: string(raw)}
	}
	return Message{Kind: Structured, Value: v, Raw: string(raw)}
}

func (m Message) IsStructured() bool {
	return m.Kind == Structured
}

// Decode 把结构化消息（或其中的某个字段值）绑定到目标结构体，字段名按 json tag 匹配。
func Decode(src any, dst any) error {
	if m, ok := src.(Message); ok {
		if !m.IsStructured() {
			return errors.New("ws message is not structured")
		}
		src = m.Value
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           dst,
	})
	if err != nil {
		return err
	}
	return dec.Decode(src)
}

// encodePayload：文本直接发送，其它类型先序列化成 JSON。
func encodePayload(payload any) ([]byte, error) {
	switch p := payload.(type) {
	case string:
		return []byte(p), nil
	case []byte:
		return p, nil
	case json.RawMessage:
		return p, nil
	default:
		return json.Marshal(payload)
	}
}
