package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
)

// Params хранит параметры запроса в порядке добавления.
// Биржа подписывает строку запроса как есть, без пересортировки ключей,
// поэтому url.Values с его сортировкой здесь не подходит.
type Params struct {
	pairs []pair
}

type pair struct {
	key   string
	value string
}

func NewParams() *Params {
	return &Params{}
}

// Add добавляет параметр в конец. Ключи не дедуплицируются,
// повторный Add того же ключа — ошибка вызывающего.
func (p *Params) Add(key, value string) *Params {
	p.pairs = append(p.pairs, pair{key: key, value: value})
	return p
}

func (p *Params) Len() int {
	return len(p.pairs)
}

// Encode собирает строку запроса в порядке добавления
// со стандартным URL-экранированием.
func (p *Params) Encode() string {
	var b strings.Builder
	for i, kv := range p.pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(kv.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(kv.value))
	}
	return b.String()
}

// Sign считает HMAC-SHA256 от закодированной строки запроса,
// результат — hex в нижнем регистре. Должно бит-в-бит совпадать
// со схемой подписи биржи, иначе запрос будет отклонен.
func Sign(secret string, params *Params) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(params.Encode()))
	return hex.EncodeToString(mac.Sum(nil))
}
