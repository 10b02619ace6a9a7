package claims

// NatsLimits are the message-level limits granted to an account or user
type NatsLimits struct {
	// Subs is the maximum number of subscriptions, NoLimit for unlimited
	Subs int64 `json:"subs,omitempty"`
	// Data is the maximum number of bytes, NoLimit for unlimited
	Data int64 `json:"data,omitempty"`
	// Payload is the maximum message payload, NoLimit for unlimited
	Payload int64 `json:"payload,omitempty"`
}

// IsUnlimited reports whether every message-level limit is unlimited
func (n *NatsLimits) IsUnlimited() bool {
	return n.Subs == NoLimit && n.Data == NoLimit && n.Payload == NoLimit
}

// AccountLimits are the account-level resource limits
type AccountLimits struct {
	// Imports is the maximum number of imports, NoLimit for unlimited
	Imports int64 `json:"imports,omitempty"`
	// Exports is the maximum number of exports, NoLimit for unlimited
	Exports int64 `json:"exports,omitempty"`
	// WildcardExports allows the account to export wildcard subjects
	WildcardExports bool `json:"wildcards,omitempty"`
	// DisallowBearer rejects bearer user tokens issued by the account
	DisallowBearer bool `json:"disallow_bearer,omitempty"`
	// Conn is the maximum number of client connections, NoLimit for unlimited
	Conn int64 `json:"conn,omitempty"`
	// LeafNodeConn is the maximum number of leaf node connections,
	// NoLimit for unlimited
	LeafNodeConn int64 `json:"leaf,omitempty"`
}

// IsUnlimited reports whether every account-level limit is unlimited
func (a *AccountLimits) IsUnlimited() bool {
	return *a == AccountLimits{
		Imports:         NoLimit,
		Exports:         NoLimit,
		WildcardExports: true,
		Conn:            NoLimit,
		LeafNodeConn:    NoLimit,
	}
}

// JetStreamLimits are the stream-storage limits granted to an account
type JetStreamLimits struct {
	// MemoryStorage is the maximum memory storage in bytes, NoLimit for unlimited
	MemoryStorage int64 `json:"mem_storage,omitempty"`
	// DiskStorage is the maximum disk storage in bytes, NoLimit for unlimited
	DiskStorage int64 `json:"disk_storage,omitempty"`
	// Streams is the maximum number of streams, NoLimit for unlimited
	Streams int64 `json:"streams,omitempty"`
	// Consumer is the maximum number of consumers, NoLimit for unlimited
	Consumer int64 `json:"consumer,omitempty"`
	// MaxAckPending caps a stream's max ack pending setting
	MaxAckPending int64 `json:"max_ack_pending,omitempty"`
	// MemoryMaxStreamBytes caps the size of a memory-backed stream
	MemoryMaxStreamBytes int64 `json:"mem_max_stream_bytes,omitempty"`
	// DiskMaxStreamBytes caps the size of a disk-backed stream
	DiskMaxStreamBytes int64 `json:"disk_max_stream_bytes,omitempty"`
	// MaxBytesRequired forces streams to declare a max bytes setting
	MaxBytesRequired bool `json:"max_bytes_required,omitempty"`
}

// JetStreamTieredLimits maps a replication tier (e.g. "R1", "R3") to
// the stream-storage limits granted for that tier
type JetStreamTieredLimits map[string]JetStreamLimits

// OperatorLimits are the limits an operator grants an account
type OperatorLimits struct {
	NatsLimits
	AccountLimits
	JetStreamLimits
	JetStreamTieredLimits `json:"tiered_limits,omitempty"`
}

// UserLimits restrict where and when a user may connect from
type UserLimits struct {
	// Src is a list of CIDR blocks the user may connect from
	Src CIDRList `json:"src,omitempty"`
	// Times are the daily time ranges the user may connect within
	Times []TimeRange `json:"times,omitempty"`
	// Locale is the IANA time zone the Times are interpreted in
	Locale string `json:"times_location,omitempty"`
}

// Limits combines the connection restrictions and message-level limits
// of a user
type Limits struct {
	UserLimits
	NatsLimits
}
