package hostadapter

import "github.com/MetaFFI/plugin-sdk/pkg/ffierr"

func unboxTypeError(raw any) error {
	return ffierr.Newf(ffierr.TypeMismatch, "unbox received a raw handle this host did not box: %T", raw)
}
