package interf

// MinBufferCap is the smallest capacity of the internal buffer of a GreedyReader.
// The capacity is doubled until the requested position fits (amortized growth).
const MinBufferCap = 16 // 16 byte

// SectorSize is the size of a sector. A sector is a part of a stream.
// It is comparable to sectors of a block device.
// The SectorSize is also the read buffer size of the replay reader.
const SectorSize = 16384 // 16 kiB

// MaxSectorJump determines how far an open pass may read ahead to reach a requested sector.
// A forward-only source does not allow random read access.
// To reach a more distant sector, you either have to read up to this point or open a new pass.
// Opening a new pass often takes longer than reading unnecessary data.
const MaxSectorJump = (50 * 1024 * 1024) / SectorSize // 3200 sectors (=50 MiB, ~1sec with 400 MBit/s)

// MaxReadersPerSource determines how many open passes can be kept for later use.
// This should reduce source re-openings.
const MaxReadersPerSource = 6

// CacheExpireSeconds is the default value n. The cache stores sectors for max. n seconds.
const CacheExpireSeconds = 2 * 24 * 60 * 60 // 2 days
