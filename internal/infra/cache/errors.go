package cache

import "errors"

var (
	// ErrEncode возвращается, если значение не сериализуется
	ErrEncode = errors.New("cache: failed to encode value")

	// ErrDecode возвращается, если значение в кеше повреждено
	ErrDecode = errors.New("cache: failed to decode value")

	// ErrRedis возвращается при ошибке обращения к Redis
	ErrRedis = errors.New("cache: redis error")
)
