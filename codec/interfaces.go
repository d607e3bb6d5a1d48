package codec

//go:generate mockgen -source=interfaces.go -destination=../internal/mock/codec_mock.go -package=mock

// Codec turns structured values into bytes and back. Implementations must
// be safe for concurrent use.
type Codec interface {
	// Encode serializes v.
	Encode(v any) ([]byte, error)

	// Decode deserializes data into v, which must be a non-nil pointer or a
	// value the codec can fill in place.
	Decode(data []byte, v any) error
}
