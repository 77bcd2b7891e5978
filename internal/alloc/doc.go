// Package alloc implements the two allocators named in the on-disk layout:
// the inode allocator over the superblock's 100-byte inode bitmap, and the
// data-block allocator over the three-block, 1100-entry logical data
// bitmap. Both are first-fit, lowest-index-wins scans built on
// github.com/boljen/go-bitmap, grounded on drivers/common/allocatormap.go's
// Allocator. InodeBitmap and DataBitmap do no I/O themselves: Load* reads
// the on-disk bytes in, Store writes them back out, and every mutation
// happens in between against the block(s) already read into memory for that
// operation. DiskInodeAllocator and DiskDataAllocator run that cycle against
// the block device, persisting the bitmap and the superblock's free count on
// every call.
package alloc
