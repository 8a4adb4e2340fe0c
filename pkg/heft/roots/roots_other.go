//go:build !linux && !darwin && !windows

package roots

func platformVolumes() []Root {
	return []Root{{Path: "/", Label: "/", Kind: KindVolume}}
}
