package server

import (
	"bytes"
	"encoding/json"

	"github.com/dota2-beta/Dungeon-Game/pkg/api"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

// codec кодирует исходящие сообщения. Входящие команды всегда JSON.
type codec interface {
	Encode(msg api.ServerMessage) (messageType int, data []byte, err error)
}

type jsonCodec struct{}

func (jsonCodec) Encode(msg api.ServerMessage) (int, []byte, error) {
	data, err := json.Marshal(msg)
	return websocket.TextMessage, data, err
}

// msgpackCodec - бинарные кадры. Имена полей берутся из json-тегов, клиент видит ту же схему.
type msgpackCodec struct{}

func (msgpackCodec) Encode(msg api.ServerMessage) (int, []byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(&msg); err != nil {
		return websocket.BinaryMessage, nil, err
	}
	return websocket.BinaryMessage, buf.Bytes(), nil
}

// codecByName выбирает кодек по параметру ?codec=
func codecByName(name string) codec {
	if name == "msgpack" {
		return msgpackCodec{}
	}
	return jsonCodec{}
}
