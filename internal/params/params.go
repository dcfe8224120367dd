package params

const (
	// MinModulusBits is the smallest bit size accepted for a Paillier modulus.
	// Half of it must still leave room for two distinct primes.
	MinModulusBits = 8
	// MaxModulusBits is the largest bit size accepted for a Paillier modulus.
	MaxModulusBits = 8192
	// DefaultModulusBits is the bit size used when the caller does not pick one.
	DefaultModulusBits = 2048

	DefaultModulusBytes = DefaultModulusBits / 8 // = 256

	// PrimalityIterations is the number of iterations to use when checking primality.
	//
	// More iterations mean fewer false positives, but more expensive calculations.
	// 20 is the same number that Go uses internally.
	PrimalityIterations = 20

	// FingerprintBytes is the length of a key fingerprint.
	FingerprintBytes = 32
)
