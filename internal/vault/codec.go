package vault

import (
	"encoding/binary"
	"fmt"

	"github.com/cyphera/cyphera-vault/internal/address"
)

// recordWriter appends little-endian fields into a fixed-size buffer.
type recordWriter struct {
	buf []byte
}

func newRecordWriter(size int, d discriminator) *recordWriter {
	w := &recordWriter{buf: make([]byte, 0, size)}
	w.buf = append(w.buf, d[:]...)
	return w
}

func (w *recordWriter) identity(id address.Identity) { w.buf = append(w.buf, id[:]...) }
func (w *recordWriter) u64(v uint64)                 { w.buf = binary.LittleEndian.AppendUint64(w.buf, v) }
func (w *recordWriter) i64(v int64)                  { w.u64(uint64(v)) }
func (w *recordWriter) u8(v uint8)                   { w.buf = append(w.buf, v) }

func (w *recordWriter) boolean(v bool) {
	if v {
		w.u8(1)
		return
	}
	w.u8(0)
}

type recordReader struct {
	data []byte
	off  int
}

func newRecordReader(data []byte, size int, d discriminator, name string) (*recordReader, error) {
	if len(data) != size {
		return nil, ErrAccountDidNotDecode.Wrap(fmt.Errorf("%s: expected %d bytes, got %d", name, size, len(data)))
	}
	if discriminator(data[:8]) != d {
		return nil, ErrAccountDidNotDecode.Wrap(fmt.Errorf("%s: discriminator mismatch", name))
	}
	return &recordReader{data: data, off: 8}, nil
}

func (r *recordReader) identity() address.Identity {
	var id address.Identity
	copy(id[:], r.data[r.off:r.off+32])
	r.off += 32
	return id
}

func (r *recordReader) u64() uint64 {
	v := binary.LittleEndian.Uint64(r.data[r.off : r.off+8])
	r.off += 8
	return v
}

func (r *recordReader) i64() int64 { return int64(r.u64()) }

func (r *recordReader) u8() uint8 {
	v := r.data[r.off]
	r.off++
	return v
}

func (r *recordReader) boolean() (bool, error) {
	switch v := r.u8(); v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, ErrAccountDidNotDecode.Wrap(fmt.Errorf("invalid bool byte %d", v))
	}
}

// MarshalBinary encodes the vault in its fixed layout.
func (v *Vault) MarshalBinary() ([]byte, error) {
	w := newRecordWriter(VaultLen, vaultDiscriminator)
	w.identity(v.Admin)
	w.identity(v.PayoutDestination)
	w.u64(v.RateNumerator)
	w.u64(v.RateDenominator)
	w.u64(v.SupplyCap)
	w.u64(v.TotalMinted)
	w.u64(v.TotalDeposited)
	w.u64(v.TotalWithdrawn)
	w.i64(v.CreatedAt)
	w.u8(v.VaultBump)
	w.u8(v.TreasuryBump)
	return w.buf, nil
}

// UnmarshalBinary decodes a vault record, rejecting other record types.
func (v *Vault) UnmarshalBinary(data []byte) error {
	r, err := newRecordReader(data, VaultLen, vaultDiscriminator, "vault")
	if err != nil {
		return err
	}
	v.Admin = r.identity()
	v.PayoutDestination = r.identity()
	v.RateNumerator = r.u64()
	v.RateDenominator = r.u64()
	v.SupplyCap = r.u64()
	v.TotalMinted = r.u64()
	v.TotalDeposited = r.u64()
	v.TotalWithdrawn = r.u64()
	v.CreatedAt = r.i64()
	v.VaultBump = r.u8()
	v.TreasuryBump = r.u8()
	return nil
}

func (c *ChildAccount) MarshalBinary() ([]byte, error) {
	w := newRecordWriter(ChildAccountLen, childAccountDiscriminator)
	w.identity(c.Vault)
	w.identity(c.Authority)
	w.u64(c.TotalDeposited)
	w.u64(c.TotalPaidOut)
	w.i64(c.CreatedAt)
	w.u8(c.Bump)
	return w.buf, nil
}

func (c *ChildAccount) UnmarshalBinary(data []byte) error {
	r, err := newRecordReader(data, ChildAccountLen, childAccountDiscriminator, "child")
	if err != nil {
		return err
	}
	c.Vault = r.identity()
	c.Authority = r.identity()
	c.TotalDeposited = r.u64()
	c.TotalPaidOut = r.u64()
	c.CreatedAt = r.i64()
	c.Bump = r.u8()
	return nil
}

func (p *PendingPayout) MarshalBinary() ([]byte, error) {
	w := newRecordWriter(PendingPayoutLen, pendingPayoutDiscriminator)
	w.identity(p.Vault)
	w.identity(p.Child)
	w.u64(p.Amount)
	w.i64(p.RequestedAt)
	w.boolean(p.Executed)
	w.u8(p.Bump)
	return w.buf, nil
}

func (p *PendingPayout) UnmarshalBinary(data []byte) error {
	r, err := newRecordReader(data, PendingPayoutLen, pendingPayoutDiscriminator, "payout")
	if err != nil {
		return err
	}
	p.Vault = r.identity()
	p.Child = r.identity()
	p.Amount = r.u64()
	p.RequestedAt = r.i64()
	executed, err := r.boolean()
	if err != nil {
		return err
	}
	p.Executed = executed
	p.Bump = r.u8()
	return nil
}
