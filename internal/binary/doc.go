// Package binary locates, downloads, verifies and installs the yt-dlp
// executable that vget drives.
//
// # Resolution Order
//
//  1. yt-dlp on PATH, accepted only if `yt-dlp --version` succeeds
//  2. the cached copy in <vget dir>/bin
//  3. a fresh download of the official GitHub release asset for this host
//
// # Verification
//
// Every downloaded asset is checked against the release's SHA2-256SUMS file.
// When a keyring is configured, SHA2-256SUMS must additionally carry a valid
// OpenPGP detached signature (SHA2-256SUMS.sig). Nothing is installed
// without a successful check unless verification is explicitly skipped.
//
// # Usage
//
//	mgr, err := binary.NewManager(binary.Config{
//	    VgetDir:      "/home/user/.config/vget",
//	    PlatformInfo: info,
//	})
//	if err != nil {
//	    return err
//	}
//
//	loc, err := mgr.Ensure(ctx, binary.EnsureOptions{})
//	if err != nil {
//	    return err
//	}
//	fmt.Println("using", loc.Path)
package binary
