package primitives

import "fmt"

const AddressLength = 20

// Address is a 20 byte account address.
type Address struct {
	bytes B160
}

func AddressFromBytes(b []byte) (Address, error) {
	f, err := FromBytes[[20]byte](b)
	if err != nil {
		return Address{}, fmt.Errorf("invalid address: %w", err)
	}
	return Address{bytes: f}, nil
}

// AddressFromHex accepts any letter case, checksummed or not.
func AddressFromHex(s string) (Address, error) {
	f, err := FromHex[[20]byte](s)
	if err != nil {
		return Address{}, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return Address{bytes: f}, nil
}

func (a Address) Bytes() []byte {
	return a.bytes.Bytes()
}

func (a Address) Fixed() B160 {
	return a.bytes
}

// Hex returns the lowercase 0x-prefixed form.
func (a Address) Hex() string {
	return a.bytes.Hex()
}

func (a Address) String() string {
	return a.Checksum()
}

// Checksum returns the EIP-55 mixed-case form: a hex letter is upper-cased
// when the matching nibble of keccak256(lowercase hex) is >= 8.
func (a Address) Checksum() string {
	lower := []byte(a.bytes.Hex()[2:])
	hash := Keccak256Hash(lower).Bytes()
	for i := range lower {
		nibble := hash[i/2]
		if i%2 == 0 {
			nibble >>= 4
		} else {
			nibble &= 0x0f
		}
		if lower[i] >= 'a' && nibble >= 8 {
			lower[i] -= 'a' - 'A'
		}
	}
	return "0x" + string(lower)
}

func (a Address) IsZero() bool {
	return a.bytes.IsZero()
}

func (a Address) Equal(other Address) bool {
	return a == other
}

// MarshalText emits the lowercase form, the interchange format of JSON views.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.Hex()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := AddressFromHex(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
