package cpu

// DefaultMemorySize is the capacity used when the host does not choose one.
const DefaultMemorySize = 65535

// MaxMemorySize is every byte a 16-bit address can reach.
const MaxMemorySize = 1 << 16

// Memory is a linear byte array addressed modulo its size.
type Memory struct {
	data []uint8
}

// NewMemory allocates size zeroed bytes, 1 to MaxMemorySize.
func NewMemory(size int) (*Memory, error) {
	if size <= 0 || size > MaxMemorySize {
		return nil, ErrMemorySize(size)
	}
	return &Memory{data: make([]uint8, size)}, nil
}

// Len returns the configured size.
func (m *Memory) Len() int {
	return len(m.data)
}

func (m *Memory) index(addr uint16) int {
	return int(addr) % len(m.data)
}

// Read returns the byte at addr.
func (m *Memory) Read(addr uint16) uint8 {
	return m.data[m.index(addr)]
}

// Write stores v at addr.
func (m *Memory) Write(addr uint16, v uint8) {
	m.data[m.index(addr)] = v
}

// Load copies data starting at addr, wrapping at the 16-bit boundary
// and at the memory size.
func (m *Memory) Load(addr uint16, data []byte) {
	for i, b := range data {
		m.Write(addr+uint16(i), b)
	}
}

// Bytes returns the backing array. Writes through it are visible to the core.
func (m *Memory) Bytes() []byte {
	return m.data
}

// Clear zeroes every byte.
func (m *Memory) Clear() {
	clear(m.data)
}
